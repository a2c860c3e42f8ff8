package util

import (
	"errors"

	"github.com/LerianStudio/lib-commons/commons"
	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/LerianStudio/lib-wrapi-go/constant"
	"github.com/LerianStudio/lib-wrapi-go/model"
	"github.com/LerianStudio/lib-wrapi-go/pkg"
)

// ValidateEnvVariables checks the configuration loaded from the environment
func ValidateEnvVariables(cfg *model.Config, l log.Logger) error {
	if cfg == nil {
		return errors.New("wrapi client config is nil")
	}

	if commons.IsNilOrEmpty(&cfg.BaseURL) {
		return invalid(l, "missing base URL environment variable "+constant.EnvBaseURL)
	}

	if cfg.TimeoutSeconds < 0 {
		return invalid(l, "negative timeout in "+constant.EnvTimeoutSeconds)
	}

	if cfg.RetryMaxAttempts < 0 {
		return invalid(l, "negative retry attempts in "+constant.EnvRetryMaxAttempts)
	}

	if cfg.CacheTTLSeconds < 0 {
		return invalid(l, "negative cache TTL in "+constant.EnvCacheTTLSeconds)
	}

	if cfg.RateLimitRPS < 0 {
		return invalid(l, "negative rate limit in "+constant.EnvRateLimitRPS)
	}

	return nil
}

func invalid(l log.Logger, reason string) error {
	err := pkg.ValidateBusinessError(constant.ErrInvalidConfig, "Config", reason)

	l.Error(err.Error())

	return err
}

package wrapi

import (
	"github.com/LerianStudio/lib-commons/commons"
	cn "github.com/LerianStudio/lib-wrapi-go/constant"
	"github.com/LerianStudio/lib-wrapi-go/model"
	"github.com/LerianStudio/lib-wrapi-go/pkg"
)

// LoadFromEnv builds the client configuration from WRAPI_* environment variables.
func LoadFromEnv() model.Config {
	cfg := model.Config{
		BaseURL:          commons.GetenvOrDefault(cn.EnvBaseURL, ""),
		TimeoutSeconds:   int(commons.GetenvIntOrDefault(cn.EnvTimeoutSeconds, 0)),
		RetryMaxAttempts: int(commons.GetenvIntOrDefault(cn.EnvRetryMaxAttempts, 0)),
		CacheTTLSeconds:  int(commons.GetenvIntOrDefault(cn.EnvCacheTTLSeconds, 0)),
		RateLimitRPS:     int(commons.GetenvIntOrDefault(cn.EnvRateLimitRPS, 0)),
		DefaultHeaders:   pkg.ParseKeyValues(commons.GetenvOrDefault(cn.EnvDefaultHeaders, "")),
	}

	return cfg
}

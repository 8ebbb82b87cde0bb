package config

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

func validate(c *Config) error {
	v := validator.New()
	if err := registerCustomValidators(v); err != nil {
		return err
	}
	return v.Struct(c)
}

// registerCustomValidators adds custom validation rules
func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("proxy_url", func(fl validator.FieldLevel) bool {
		return validProxyURL(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("header_line", func(fl validator.FieldLevel) bool {
		key, _, ok := strings.Cut(fl.Field().String(), ":")
		return ok && strings.TrimSpace(key) != ""
	})
}

func validProxyURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
		return true
	}
	return false
}

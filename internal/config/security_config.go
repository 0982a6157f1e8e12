package config

const (
	ValidatorRemoteJWKS  = "remote-jwks"
	ValidatorFixedClaims = "fixed-claims"
)

type SecurityConfig interface {
	GetTokenValidator() string
	GetAllowInsecureTestValidator() bool
}

type Security struct {
	TokenValidator             string
	AllowInsecureTestValidator bool
}

var _ SecurityConfig = Security{}

func loadSecurity() Security {
	return Security{
		TokenValidator:             GetEnv("TOKEN_VALIDATOR", ValidatorRemoteJWKS),
		AllowInsecureTestValidator: GetEnvBool("ALLOW_INSECURE_TEST_VALIDATOR", false),
	}
}

func (s Security) GetTokenValidator() string {
	if s.TokenValidator == "" {
		return ValidatorRemoteJWKS
	}
	return s.TokenValidator
}

func (s Security) GetAllowInsecureTestValidator() bool {
	return s.AllowInsecureTestValidator
}

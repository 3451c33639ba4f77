package user

type loginInput struct {
	Body loginRequest
}

type loginRequest struct {
	Login    string `json:"login" minLength:"1" doc:"Operator login"`
	Password string `json:"password" minLength:"1" doc:"Operator password"`
}

type loginResponse struct {
	Token string `json:"token" doc:"Bearer token for subsequent requests"`
}

type loginOutput struct {
	Body loginResponse
}

type mfaEnrollInput struct{}

type mfaEnrollResponse struct {
	Secret     string `json:"secret" doc:"Base32 TOTP secret"`
	OTPAuthURL string `json:"otpauth_url" doc:"Provisioning URL for authenticator apps"`
}

type mfaEnrollOutput struct {
	Body mfaEnrollResponse
}

type mfaConfirmInput struct {
	Body mfaConfirmRequest
}

type mfaConfirmRequest struct {
	Code string `json:"code" doc:"Six-digit code from the authenticator"`
}

type mfaConfirmOutput struct{}

package models

type SignUp struct {
	Email       string `json:"email" validate:"required,email,lte=255"`
	Username    string `json:"username" validate:"required,lte=255"`
	Password    string `json:"password" validate:"required,gte=8,lte=255"`
	AccountType string `json:"accountType" validate:"required,oneof=teacher parent school business"`
	SchoolName  string `json:"schoolName" validate:"lte=255"`
}

type SignIn struct {
	Email    string `json:"email" validate:"required,email,lte=255"`
	Password string `json:"password" validate:"required,lte=255"`
}

type VerifyOTP struct {
	Email string `json:"email" validate:"required,email,lte=255"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

package models

// UpdateUserRequest is a partial profile update; nil fields are left untouched.
type UpdateUserRequest struct {
	Username   *string `json:"username" validate:"omitempty,gte=1,lte=255"`
	SchoolName *string `json:"schoolName" validate:"omitempty,lte=255"`
	Avatar     *string `json:"avatar" validate:"omitempty,lte=1024"`
}

package models

// Identity roles as the backend spells them.
const (
	RoleCustomer = "ROLE_CUSTOMER"
	RoleSeller   = "ROLE_SELLER"
)

type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile,omitempty"`
	Role     string `json:"role,omitempty"`
}

// for requesting a one-time passcode
type OTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=ROLE_CUSTOMER ROLE_SELLER"`
}

// for signup (customer)
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required"`
	OTP      string `json:"otp" validate:"required"`
}

// for login (customer and seller)
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// AuthResponse is what the OTP-verification endpoints answer with. JWT may
// legitimately be empty on the OTP-request leg, never on login/signup.
type AuthResponse struct {
	JWT     string `json:"jwt"`
	Role    string `json:"role,omitempty"`
	Message string `json:"message,omitempty"`
}

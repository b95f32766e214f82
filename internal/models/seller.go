package models

type AccountStatus string

const (
	AccountPendingVerification AccountStatus = "PENDING_VERIFICATION"
	AccountActive              AccountStatus = "ACTIVE"
	AccountSuspended           AccountStatus = "SUSPENDED"
	AccountDeactivated         AccountStatus = "DEACTIVATED"
	AccountBanned              AccountStatus = "BANNED"
	AccountClosed              AccountStatus = "CLOSED"
)

type BusinessDetails struct {
	BusinessName    string `json:"businessName,omitempty"`
	BusinessEmail   string `json:"businessEmail,omitempty" validate:"omitempty,email"`
	BusinessMobile  string `json:"businessMobile,omitempty"`
	BusinessAddress string `json:"businessAddress,omitempty"`
	Logo            string `json:"logo,omitempty"`
	Banner          string `json:"banner,omitempty"`
}

type BankDetails struct {
	AccountNumber     string `json:"accountNumber,omitempty"`
	AccountHolderName string `json:"accountHolderName,omitempty"`
	IFSCCode          string `json:"ifscCode,omitempty"`
}

type Seller struct {
	ID              int64            `json:"id"`
	SellerName      string           `json:"sellerName"`
	Email           string           `json:"email"`
	Mobile          string           `json:"mobile,omitempty"`
	GSTIN           string           `json:"GSTIN,omitempty"`
	BusinessDetails *BusinessDetails `json:"businessDetails,omitempty"`
	BankDetails     *BankDetails     `json:"bankDetails,omitempty"`
	PickupAddress   *Address         `json:"pickupAddress,omitempty"`
	AccountStatus   AccountStatus    `json:"accountStatus,omitempty"`
	EmailVerified   bool             `json:"isEmailVerified,omitempty"`
}

type RegisterSellerRequest struct {
	SellerName      string           `json:"sellerName" validate:"required"`
	Email           string           `json:"email" validate:"required,email"`
	Mobile          string           `json:"mobile,omitempty" validate:"omitempty,mobile"`
	OTP             string           `json:"otp,omitempty"`
	GSTIN           string           `json:"GSTIN,omitempty"`
	BusinessDetails *BusinessDetails `json:"businessDetails,omitempty"`
	BankDetails     *BankDetails     `json:"bankDetails,omitempty"`
	PickupAddress   *Address         `json:"pickupAddress,omitempty"`
}

// SellerReport backs the seller dashboard cards.
type SellerReport struct {
	ID                int64 `json:"id"`
	TotalEarnings     int64 `json:"totalEarnings"`
	TotalSales        int64 `json:"totalSales"`
	TotalRefunds      int64 `json:"totalRefunds"`
	TotalTax          int64 `json:"totalTax"`
	NetEarnings       int64 `json:"netEarnings"`
	TotalOrders       int   `json:"totalOrders"`
	CanceledOrders    int   `json:"canceledOrders"`
	TotalTransactions int   `json:"totalTransactions"`
}

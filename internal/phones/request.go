package phones

type CreatePhoneContractRequest struct {
	CompanyID   int     `json:"company_id" binding:"required"`
	Provider    string  `json:"provider" binding:"required"`
	PhoneNumber string  `json:"phone_number" binding:"required"`
	Plan        *string `json:"plan"`
}

type UpdatePhoneContractRequest struct {
	Provider    *string `json:"provider"`
	PhoneNumber *string `json:"phone_number"`
	Plan        *string `json:"plan"`
	Status      *string `json:"status"`
}

package companies

type CreateCompanyRequest struct {
	Name    string  `json:"name" binding:"required"`
	Address *string `json:"address"`
}

type UpdateCompanyRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

package dto

type TemplateResponse struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	DocumentType string `json:"document_type"`
	Available    bool   `json:"available"`
}

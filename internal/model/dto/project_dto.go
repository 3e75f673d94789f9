package dto

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

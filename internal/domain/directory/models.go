package directory

import "time"

type Profile struct {
	ID             string    `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	DepartmentID   string    `json:"departmentId,omitempty"`
	DepartmentName string    `json:"departmentName,omitempty"`
	Position       string    `json:"position,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	CPF            string    `json:"cpf,omitempty"`
	CEP            string    `json:"cep,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Department struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ManagerID string `json:"managerId,omitempty"`
	ParentID  string `json:"parentId,omitempty"`
	Headcount int    `json:"headcount"`
}

// DepartmentNode is a department with its children, for the tree endpoint.
type DepartmentNode struct {
	Department
	Children []*DepartmentNode `json:"children,omitempty"`
}

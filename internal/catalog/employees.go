// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

// Departments are the select options for the department field.
var Departments = []string{
	"Engineering", "Marketing", "Sales", "HR", "Finance", "Product", "Design", "Operations",
}

// Skills are the multiselect options for the skills field.
var Skills = []string{
	"React", "Node.js", "TypeScript", "GraphQL", "Python", "Java", "AWS",
	"Docker", "Kubernetes", "SQL", "MongoDB", "Redis", "PostgreSQL",
	"Angular", "Vue.js", "Rust", "Go", "CI/CD", "Terraform", "TensorFlow",
}

func options(values []string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, Option{Value: v, Label: v})
	}
	return opts
}

// Employees returns the catalog for employee records.
func Employees() Catalog {
	return Catalog{
		{Path: "firstName", Label: "First Name", Type: TypeString, Placeholder: "Enter first name"},
		{Path: "lastName", Label: "Last Name", Type: TypeString, Placeholder: "Enter last name"},
		{Path: "email", Label: "Email", Type: TypeString, Placeholder: "Enter email"},
		{Path: "department", Label: "Department", Type: TypeSelect, Options: options(Departments)},
		{Path: "role", Label: "Role", Type: TypeString, Placeholder: "Enter role"},
		{Path: "salary", Label: "Salary", Type: TypeNumber, Placeholder: "Enter amount"},
		{Path: "joinDate", Label: "Join Date", Type: TypeDate, Placeholder: "YYYY-MM-DD"},
		{Path: "lastReview", Label: "Last Review", Type: TypeDate, Placeholder: "YYYY-MM-DD"},
		{Path: "isActive", Label: "Active", Type: TypeBoolean},
		{Path: "skills", Label: "Skills", Type: TypeMultiselect, Options: options(Skills)},
		{Path: "performanceRating", Label: "Rating", Type: TypeNumber, Placeholder: "1-5"},
		{Path: "projectsCount", Label: "Projects", Type: TypeNumber},
		{Path: "address.street", Label: "Street", Type: TypeString},
		{Path: "address.city", Label: "City", Type: TypeString, Placeholder: "Enter city"},
		{Path: "address.state", Label: "State", Type: TypeString, Placeholder: "Enter state"},
		{Path: "address.zipCode", Label: "Zip", Type: TypeString},
		{Path: "address.country", Label: "Country", Type: TypeString, Placeholder: "Enter country"},
	}
}

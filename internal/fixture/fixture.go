// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package fixture generates deterministic employee records for demos and
// tests. The same seed and count always produce the same records.
package fixture

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rosterq/rosterq/internal/catalog"
)

// DefaultCount is the number of employees generated when none is asked for.
const DefaultCount = 55

// DefaultSeed seeds the generator when none is given.
const DefaultSeed uint64 = 20180101

var firstNames = []string{
	"James", "Emma", "Oliver", "Sophia", "William", "Isabella", "Liam", "Mia",
	"Noah", "Charlotte", "Benjamin", "Amelia", "Elijah", "Harper", "Lucas",
	"Evelyn", "Mason", "Abigail", "Ethan", "Emily", "Alexander", "Elizabeth",
	"Henry", "Sofia", "Sebastian", "Avery", "Jack", "Ella", "Aiden", "Scarlett",
	"Owen", "Grace", "Samuel", "Chloe", "Matthew", "Victoria", "Joseph", "Riley",
	"Levi", "Aria", "Mateo", "Lily", "David", "Aurora", "John", "Zoey",
	"Wyatt", "Penelope", "Gabriel", "Layla",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Lee", "Perez", "Thompson", "White", "Harris", "Sanchez", "Clark",
	"Ramirez", "Lewis", "Robinson", "Walker", "Young", "Allen", "King",
	"Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores", "Green",
	"Adams", "Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell",
	"Carter", "Roberts",
}

type department struct {
	name      string
	roles     []string
	minSalary int
	maxSalary int
}

var departments = []department{
	{"Engineering", []string{"Software Engineer", "Senior Engineer", "Staff Engineer", "Tech Lead", "DevOps Engineer", "QA Engineer"}, 70000, 150000},
	{"Marketing", []string{"Marketing Manager", "Content Strategist", "Brand Specialist", "SEO Analyst", "Growth Lead"}, 50000, 120000},
	{"Sales", []string{"Sales Representative", "Sales Lead", "Account Executive", "Sales Manager", "SDR"}, 55000, 130000},
	{"HR", []string{"HR Specialist", "Recruiter", "HR Business Partner", "Talent Manager", "People Ops"}, 50000, 110000},
	{"Finance", []string{"Financial Analyst", "Accountant", "Finance Manager", "Controller", "FP&A Analyst"}, 55000, 125000},
	{"Product", []string{"Product Manager", "Product Owner", "Associate PM", "Head of Product"}, 80000, 150000},
	{"Design", []string{"Product Designer", "UX Designer", "UI Designer", "Design Lead"}, 65000, 130000},
	{"Operations", []string{"Operations Manager", "Operations Analyst", "Supply Chain Specialist"}, 55000, 115000},
}

type city struct {
	city, state, country string
}

var cities = []city{
	{"San Francisco", "CA", "USA"},
	{"New York", "NY", "USA"},
	{"Seattle", "WA", "USA"},
	{"Austin", "TX", "USA"},
	{"Boston", "MA", "USA"},
	{"Los Angeles", "CA", "USA"},
	{"Chicago", "IL", "USA"},
	{"Denver", "CO", "USA"},
	{"Portland", "OR", "USA"},
	{"San Diego", "CA", "USA"},
	{"Philadelphia", "PA", "USA"},
	{"Phoenix", "AZ", "USA"},
	{"Miami", "FL", "USA"},
	{"London", "Greater London", "UK"},
	{"Toronto", "Ontario", "Canada"},
	{"Berlin", "Berlin", "Germany"},
}

var streets = []string{"Main St", "Oak Ave", "Maple Dr", "Pine Rd", "Elm St", "Cedar Ln", "Park Ave", "Lake View Dr", "Hill Rd"}

// generator wraps a seeded source with the helpers the record builder needs.
type generator struct {
	r *rand.Rand
}

// between returns an int in [lo, hi].
func (g generator) between(lo, hi int) int {
	return lo + g.r.IntN(hi-lo+1)
}

func pick[T any](g generator, items []T) T {
	return items[g.r.IntN(len(items))]
}

// pickMany returns between lo and hi distinct items in shuffled order.
func (g generator) pickMany(items []string, lo, hi int) []interface{} {
	n := g.between(lo, hi)
	perm := g.r.Perm(len(items))
	out := make([]interface{}, 0, n)
	for _, i := range perm[:n] {
		out = append(out, items[i])
	}
	return out
}

func (g generator) date(fromYear, toYear int) string {
	return fmt.Sprintf("%d-%02d-%02d", g.between(fromYear, toYear), g.between(1, 12), g.between(1, 28))
}

func (g generator) employee(id int) map[string]interface{} {
	first := pick(g, firstNames)
	last := pick(g, lastNames)
	dept := pick(g, departments)
	loc := pick(g, cities)

	return map[string]interface{}{
		"id":                fmt.Sprintf("emp-%d", id),
		"firstName":         first,
		"lastName":          last,
		"email":             strings.ToLower(first) + "." + strings.ToLower(last) + "@example.com",
		"department":        dept.name,
		"role":              pick(g, dept.roles),
		"salary":            g.between(dept.minSalary, dept.maxSalary),
		"joinDate":          g.date(2018, 2024),
		"lastReview":        g.date(2019, 2025),
		"isActive":          g.r.Float64() > 0.12,
		"skills":            g.pickMany(catalog.Skills, 2, 6),
		"performanceRating": g.between(1, 5),
		"projectsCount":     g.between(0, 10),
		"address": map[string]interface{}{
			"street":  fmt.Sprintf("%d %s", g.between(100, 9999), pick(g, streets)),
			"city":    loc.city,
			"state":   loc.state,
			"zipCode": fmt.Sprintf("%d", g.between(10000, 99999)),
			"country": loc.country,
		},
	}
}

// Employees returns n generated employee records with ids emp-1..emp-n.
func Employees(n int, seed uint64) []map[string]interface{} {
	if n < 0 {
		n = 0
	}
	g := generator{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
	out := make([]map[string]interface{}, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, g.employee(i))
	}
	return out
}

// Document wraps Employees in the {"employees": [...]} envelope.
func Document(n int, seed uint64) map[string]interface{} {
	return map[string]interface{}{"employees": Employees(n, seed)}
}

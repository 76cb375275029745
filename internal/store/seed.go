package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/clicklar/internal/auth"
)

// Seed is the initial data loaded into a development store.
type Seed struct {
	Categories []string      `yaml:"categories"`
	Users      []SeedUser    `yaml:"users"`
	Services   []SeedService `yaml:"services"`
}

// SeedUser is an account with a plaintext password.
type SeedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Password string `yaml:"password"`
}

// SeedService is a listing owned by a seed user, referenced by email.
// Ratings map rater email to stars.
type SeedService struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Category    string         `yaml:"category"`
	Price       float64        `yaml:"price"`
	Owner       string         `yaml:"owner"`
	Ratings     map[string]int `yaml:"ratings"`
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path) //nolint:gosec // seed path from trusted config
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed YAML.
func ParseSeed(data []byte) (*Seed, error) {
	seed := &Seed{}
	if err := yaml.Unmarshal(data, seed); err != nil {
		return nil, fmt.Errorf("parsing seed YAML: %w", err)
	}
	return seed, nil
}

// Apply inserts the seed into s.
func (seed *Seed) Apply(ctx context.Context, s Store) error {
	for _, c := range seed.Categories {
		if err := s.AddCategory(ctx, c); err != nil {
			return fmt.Errorf("seeding category %q: %w", c, err)
		}
	}

	ids := make(map[string]string, len(seed.Users))
	for _, su := range seed.Users {
		hash, err := auth.HashPassword(su.Password)
		if err != nil {
			return fmt.Errorf("seeding user %s: %w", su.Email, err)
		}
		u := &User{Name: su.Name, Email: su.Email, Phone: su.Phone, PasswordHash: hash}
		if err := s.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seeding user %s: %w", su.Email, err)
		}
		ids[su.Email] = u.ID
	}

	for _, ss := range seed.Services {
		owner, ok := ids[ss.Owner]
		if !ok {
			return fmt.Errorf("seeding service %q: unknown owner %s", ss.Title, ss.Owner)
		}
		svc := &Service{
			Title:       ss.Title,
			Description: ss.Description,
			Category:    ss.Category,
			Price:       ss.Price,
			OwnerID:     owner,
		}
		if err := s.CreateService(ctx, svc); err != nil {
			return fmt.Errorf("seeding service %q: %w", ss.Title, err)
		}
		for email, stars := range ss.Ratings {
			rater, ok := ids[email]
			if !ok {
				return fmt.Errorf("seeding service %q: unknown rater %s", ss.Title, email)
			}
			if err := s.RateService(ctx, svc.ID, rater, stars); err != nil {
				return fmt.Errorf("seeding service %q: %w", ss.Title, err)
			}
		}
	}
	return nil
}

package catalog

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"storefront/internal/domain"
)

// AllCategories is the pseudo category that disables category filtering.
const AllCategories = "All"

// PlaceholderImage is served for products without images.
const PlaceholderImage = "https://via.placeholder.com/300"

type productRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo         productRepo
	imageBaseURL string
}

func New(repo productRepo, imageBaseURL string) *Service {
	return &Service{repo: repo, imageBaseURL: strings.TrimRight(imageBaseURL, "/")}
}

// Filter narrows a listing. Zero value matches everything.
type Filter struct {
	Query    string
	Category string
}

func (f Filter) matches(p domain.Product) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
		return false
	}
	cat := strings.TrimSpace(f.Category)
	if cat == "" || strings.EqualFold(cat, AllCategories) {
		return true
	}
	return strings.EqualFold(p.Category, cat)
}

func (s *Service) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.matches(p) {
			out = append(out, s.resolveImages(p))
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resolved := s.resolveImages(*p)
	return &resolved, nil
}

// Categories lists "All" followed by each distinct category, capitalised,
// in the order first seen.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := []string{AllCategories}
	for _, p := range products {
		c := strings.ToLower(strings.TrimSpace(p.Category))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, capitalize(c))
	}
	return out, nil
}

// capitalize upper-cases the first letter of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ImageURL turns a stored image reference into a URL the client can load.
func (s *Service) ImageURL(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return PlaceholderImage
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	default:
		return s.imageBaseURL + "/uploads/" + strings.TrimLeft(ref, "/")
	}
}

func (s *Service) resolveImages(p domain.Product) domain.Product {
	if len(p.Images) == 0 {
		p.Images = []string{PlaceholderImage}
		return p
	}
	resolved := make([]string, len(p.Images))
	for i, img := range p.Images {
		resolved[i] = s.ImageURL(img)
	}
	p.Images = resolved
	return p
}

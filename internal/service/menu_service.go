package service

import (
	"errors"

	"github.com/yoshii-hideaki/mikan-order/internal/domain"
)

var (
	ErrMenuItemName     = errors.New("menu item name is required")
	ErrMenuItemPrice    = errors.New("menu item price must be >= 0")
	ErrMenuItemCategory = errors.New("unknown menu category")
)

type MenuService struct {
	repo MenuRepository
}

func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

func (s *MenuService) Create(item *domain.MenuItem) error {
	if item.Name == "" {
		return ErrMenuItemName
	}
	if item.Price < 0 {
		return ErrMenuItemPrice
	}
	if !item.Category.Valid() {
		return ErrMenuItemCategory
	}
	return s.repo.CreateMenuItem(item)
}

func (s *MenuService) List() ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems()
}

func (s *MenuService) Get(id int) (*domain.MenuItem, error) {
	return s.repo.GetMenuItem(id)
}

func (s *MenuService) Delete(id int) (int64, error) {
	return s.repo.DeleteMenuItem(id)
}

// SeedDefaults loads the opening catalog when the store is empty.
func (s *MenuService) SeedDefaults() error {
	count, err := s.repo.CountMenuItems()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, item := range defaultCatalog() {
		item := item
		if err := s.repo.CreateMenuItem(&item); err != nil {
			return err
		}
	}
	return nil
}

func defaultCatalog() []domain.MenuItem {
	return []domain.MenuItem{
		{Name: "Draft Beer", Price: 700, Category: domain.CategoryAlcoholic},
		{Name: "Highball", Price: 700, Category: domain.CategoryAlcoholic},
		{Name: "Lemon Sour", Price: 700, Category: domain.CategoryAlcoholic},
		{Name: "Umeshu", Price: 700, Category: domain.CategoryAlcoholic},
		{Name: "Oolong Tea", Price: 500, Category: domain.CategorySoft},
		{Name: "Orange Juice", Price: 500, Category: domain.CategorySoft},
		{Name: "Cola", Price: 500, Category: domain.CategorySoft},
		{Name: "Ginger Ale", Price: 500, Category: domain.CategorySoft},
	}
}

var _ MenuServiceInterface = (*MenuService)(nil)

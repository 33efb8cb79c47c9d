package storage

import (
	"errors"
	"fmt"
	"sync"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"
)

// 固定的儲存鍵，與瀏覽器版本的 localStorage 相容
const (
	KeySelectedFoods = "selectedFoods"
	KeyShoppingLists = "shoppingLists"
)

var (
	// ErrListNotFound 購物清單不存在
	ErrListNotFound = errors.New("shopping list not found")

	// ErrItemOutOfRange 購物清單項目索引超出範圍
	ErrItemOutOfRange = errors.New("shopping list item out of range")
)

// Pantry 擁有的食材與已儲存的購物清單
type Pantry struct {
	mu    sync.Mutex
	store KVStore
}

// NewPantry 創建 Pantry
func NewPantry(store KVStore) *Pantry {
	return &Pantry{store: store}
}

// Owned 擁有的食材（小寫）
func (p *Pantry) Owned() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owned()
}

// Add 加入食材，重複與空白名稱會被忽略
func (p *Pantry) Add(names ...string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.owned()
	if err != nil {
		return nil, err
	}
	updated := recipe.NormalizeOwned(append(current, names...))
	if err := p.write(KeySelectedFoods, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove 移除食材，不分大小寫
func (p *Pantry) Remove(name string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.owned()
	if err != nil {
		return nil, err
	}
	target := domain.Fold(name)
	updated := make([]string, 0, len(current))
	for _, n := range current {
		if n != target {
			updated = append(updated, n)
		}
	}
	if err := p.write(KeySelectedFoods, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Clear 清空擁有的食材
func (p *Pantry) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Remove(KeySelectedFoods)
}

// Lists 已儲存的購物清單
func (p *Pantry) Lists() ([]domain.ShoppingList, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lists()
}

// SaveList 儲存購物清單，相同 ID 時取代原清單
func (p *Pantry) SaveList(list domain.ShoppingList) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	lists, err := p.lists()
	if err != nil {
		return err
	}
	replaced := false
	for i := range lists {
		if lists[i].ID == list.ID {
			lists[i] = list
			replaced = true
			break
		}
	}
	if !replaced {
		lists = append(lists, list)
	}
	return p.write(KeyShoppingLists, lists)
}

// DeleteList 刪除購物清單
func (p *Pantry) DeleteList(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	lists, err := p.lists()
	if err != nil {
		return err
	}
	kept := make([]domain.ShoppingList, 0, len(lists))
	for _, l := range lists {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(lists) {
		return ErrListNotFound
	}
	return p.write(KeyShoppingLists, kept)
}

// ToggleItem 切換購物清單項目的勾選狀態
func (p *Pantry) ToggleItem(listID string, index int) (*domain.ShoppingList, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	lists, err := p.lists()
	if err != nil {
		return nil, err
	}
	for i := range lists {
		if lists[i].ID != listID {
			continue
		}
		if index < 0 || index >= len(lists[i].Items) {
			return nil, ErrItemOutOfRange
		}
		lists[i].Items[index].Checked = !lists[i].Items[index].Checked
		if err := p.write(KeyShoppingLists, lists); err != nil {
			return nil, err
		}
		list := lists[i]
		return &list, nil
	}
	return nil, ErrListNotFound
}

func (p *Pantry) owned() ([]string, error) {
	var names []string
	if err := p.read(KeySelectedFoods, &names); err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (p *Pantry) lists() ([]domain.ShoppingList, error) {
	var lists []domain.ShoppingList
	if err := p.read(KeyShoppingLists, &lists); err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []domain.ShoppingList{}
	}
	return lists, nil
}

func (p *Pantry) read(key string, v interface{}) error {
	raw, ok, err := p.store.Get(key)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		return nil
	}
	if err := common.ParseJSON(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (p *Pantry) write(key string, v interface{}) error {
	raw, err := common.ToJSON(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return p.store.Set(key, raw)
}

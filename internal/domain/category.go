package domain

import "time"

// MaxCategoryDepth bounds ancestor walks so a parent cycle in stored data
// cannot loop forever.
const MaxCategoryDepth = 10

// Category is a node of the category forest. A nil Parent marks a root.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Parent    *string   `json:"parent"`
	Image     *Image    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FlattenCategoryPath right-aligns the deepest three categories of a
// root-to-leaf path into the super/main/sub export slots. Shorter paths leave
// the outer slots empty, so a single category lands in sub.
func FlattenCategoryPath(path []Category) (super, main, sub string) {
	slots := [3]string{}
	n := len(path)
	for i := 0; i < 3 && i < n; i++ {
		slots[2-i] = path[n-1-i].Name
	}
	return slots[0], slots[1], slots[2]
}

// Package cart reconciles resolved selections into a cart, keeping at most one
// line per (product, color, size).
package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/selection"
)

// ErrLineNotFound is returned when the line being edited or removed no longer exists.
var ErrLineNotFound = errors.New("cart line not found")

// Action says how a commit changed the cart.
type Action string

const (
	Appended    Action = "appended"
	Merged      Action = "merged"
	Overwritten Action = "overwritten"
	Removed     Action = "removed"
)

// Result is the updated cart together with the line that was touched.
type Result struct {
	Cart   entity.Cart
	LineID string
	Action Action
}

// Reconciler applies selections to carts. Carts are treated as values: the
// input cart is never modified.
type Reconciler struct {
	newID func() string
	now   func() time.Time
}

// NewReconciler returns a Reconciler that issues uuid line ids.
func NewReconciler() *Reconciler {
	return &Reconciler{newID: uuid.NewString, now: time.Now}
}

// NewReconcilerWithIDs is NewReconciler with a custom line id source.
func NewReconcilerWithIDs(newID func() string) *Reconciler {
	return &Reconciler{newID: newID, now: time.Now}
}

// Commit merges, overwrites or appends a line for sel. A non-empty editingLineID
// overwrites that line; if the edit lands on a tuple another line already holds,
// the two lines merge.
func (r *Reconciler) Commit(c entity.Cart, sel selection.Resolved, editingLineID string) (Result, error) {
	if sel.Quantity < 1 {
		return Result{}, fmt.Errorf("got %d: %w", sel.Quantity, selection.ErrInvalidQuantity)
	}

	out := c.Clone()
	idx := index(out.Lines)
	key := entity.LineKey{ProductID: sel.ProductID, Color: sel.Color, Size: sel.Size}

	var res Result
	if editingLineID != "" {
		edited := -1
		for i, l := range out.Lines {
			if l.ID == editingLineID {
				edited = i
				break
			}
		}
		if edited == -1 {
			return Result{}, fmt.Errorf("line %s: %w", editingLineID, ErrLineNotFound)
		}
		if out.Lines[edited].ProductID != sel.ProductID {
			return Result{}, fmt.Errorf("line %s: %w", editingLineID, selection.ErrProductMismatch)
		}

		if other, ok := idx[key]; ok && other != edited {
			out.Lines[other].Quantity += sel.Quantity
			out.Lines[other].UnitPrice = sel.UnitPrice
			res = Result{LineID: out.Lines[other].ID, Action: Merged}
			out.Lines = append(out.Lines[:edited], out.Lines[edited+1:]...)
		} else {
			l := &out.Lines[edited]
			l.Color, l.Size, l.Quantity, l.UnitPrice = sel.Color, sel.Size, sel.Quantity, sel.UnitPrice
			res = Result{LineID: l.ID, Action: Overwritten}
		}
	} else if i, ok := idx[key]; ok {
		out.Lines[i].Quantity += sel.Quantity
		out.Lines[i].UnitPrice = sel.UnitPrice
		res = Result{LineID: out.Lines[i].ID, Action: Merged}
	} else {
		line := entity.CartLine{
			ID:        r.newID(),
			ProductID: sel.ProductID,
			Color:     sel.Color,
			Size:      sel.Size,
			Quantity:  sel.Quantity,
			UnitPrice: sel.UnitPrice,
		}
		out.Lines = append(out.Lines, line)
		res = Result{LineID: line.ID, Action: Appended}
	}

	out.UpdatedAt = r.now().UTC()
	res.Cart = out
	return res, nil
}

// Remove deletes a line by id.
func (r *Reconciler) Remove(c entity.Cart, lineID string) (Result, error) {
	out := c.Clone()
	for i, l := range out.Lines {
		if l.ID == lineID {
			out.Lines = append(out.Lines[:i], out.Lines[i+1:]...)
			out.UpdatedAt = r.now().UTC()
			return Result{Cart: out, LineID: lineID, Action: Removed}, nil
		}
	}
	return Result{}, fmt.Errorf("line %s: %w", lineID, ErrLineNotFound)
}

// Clear empties the cart.
func (r *Reconciler) Clear(c entity.Cart) entity.Cart {
	return entity.Cart{SessionID: c.SessionID, UpdatedAt: r.now().UTC()}
}

func index(lines []entity.CartLine) map[entity.LineKey]int {
	idx := make(map[entity.LineKey]int, len(lines))
	for i, l := range lines {
		idx[l.Key()] = i
	}
	return idx
}

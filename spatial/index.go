// Package spatial is an r-tree neighbor index over the XZ ground plane.
package spatial

import (
	"fmt"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	minChildren = 25
	maxChildren = 50
	// minExtent keeps zero-radius items representable as rectangles.
	minExtent = 1e-6
)

// Item is one indexed body.
type Item struct {
	ID       uint64
	Position mgl64.Vec3
	Heading  float64
	Radius   float64

	rect rtreego.Rect
}

func (it *Item) Bounds() rtreego.Rect {
	return it.rect
}

func discRect(center mgl64.Vec3, radius float64) (rtreego.Rect, error) {
	r := math.Max(radius, minExtent)
	return rtreego.NewRect(rtreego.Point{center.X() - r, center.Z() - r}, []float64{2 * r, 2 * r})
}

// Index answers radius queries on the XZ plane. It is not safe for
// concurrent use.
type Index struct {
	tree  *rtreego.Rtree
	items map[uint64]*Item
}

func NewIndex() *Index {
	return &Index{
		tree:  rtreego.NewTree(2, minChildren, maxChildren),
		items: make(map[uint64]*Item),
	}
}

// Len is the number of indexed items.
func (x *Index) Len() int {
	return len(x.items)
}

// Upsert inserts it or moves the existing item with the same ID.
func (x *Index) Upsert(it Item) error {
	rect, err := discRect(it.Position, it.Radius)
	if err != nil {
		return fmt.Errorf("spatial: upsert %d: %w", it.ID, err)
	}
	if old, ok := x.items[it.ID]; ok {
		x.tree.Delete(old)
	}
	stored := it
	stored.rect = rect
	x.items[it.ID] = &stored
	x.tree.Insert(&stored)
	return nil
}

// Remove drops the item with id.
func (x *Index) Remove(id uint64) bool {
	old, ok := x.items[id]
	if !ok {
		return false
	}
	delete(x.items, id)
	return x.tree.Delete(old)
}

// Retain removes every item whose id is not in keep.
func (x *Index) Retain(keep map[uint64]struct{}) {
	for id := range x.items {
		if _, ok := keep[id]; !ok {
			x.Remove(id)
		}
	}
}

// Query returns the items whose disc intersects the disc of radius around
// center, skipping exclude, in ascending ID order.
func (x *Index) Query(center mgl64.Vec3, radius float64, exclude uint64) ([]Item, error) {
	if radius < 0 || len(x.items) == 0 {
		return nil, nil
	}
	bb, err := discRect(center, radius)
	if err != nil {
		return nil, fmt.Errorf("spatial: query: %w", err)
	}
	skipSelf := func(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
		return obj.(*Item).ID == exclude, false
	}

	var out []Item
	for _, obj := range x.tree.SearchIntersect(bb, skipSelf) {
		it := obj.(*Item)
		dx := it.Position.X() - center.X()
		dz := it.Position.Z() - center.Z()
		if math.Hypot(dx, dz)-it.Radius < radius {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

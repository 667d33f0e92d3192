package memory

import "slices"

// Collection 有序实体集合
// 顺序即插入顺序（Prepend插到最前），列表接口按这个顺序返回。
// Collection本身不加锁，只能在Store.Do的回调里使用
type Collection[T any] struct {
	items []*T
	id    func(*T) string
}

func newCollection[T any](id func(*T) string, items ...*T) *Collection[T] {
	return &Collection[T]{items: items, id: id}
}

// Len 元素个数
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Find 按ID查找，返回可修改的指针；找不到返回nil
func (c *Collection[T]) Find(id string) *T {
	return c.FindFunc(func(item *T) bool { return c.id(item) == id })
}

// FindFunc 返回第一个满足条件的元素
func (c *Collection[T]) FindFunc(match func(*T) bool) *T {
	for _, item := range c.items {
		if match(item) {
			return item
		}
	}
	return nil
}

// Filter 按顺序返回满足条件的元素副本；match为nil表示全部
func (c *Collection[T]) Filter(match func(*T) bool) []T {
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if match == nil || match(item) {
			out = append(out, *item)
		}
	}
	return out
}

// Append 追加到末尾
func (c *Collection[T]) Append(item *T) {
	c.items = append(c.items, item)
}

// Prepend 插入到最前
func (c *Collection[T]) Prepend(item *T) {
	c.items = slices.Insert(c.items, 0, item)
}

// Remove 按ID删除，返回是否存在
func (c *Collection[T]) Remove(id string) bool {
	idx := slices.IndexFunc(c.items, func(item *T) bool { return c.id(item) == id })
	if idx < 0 {
		return false
	}
	c.items = slices.Delete(c.items, idx, idx+1)
	return true
}

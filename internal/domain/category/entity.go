package category

import (
	apperrors "github.com/xiebiao/libconsole/pkg/errors"
)

// RootID 顶级分类的parentId
const RootID = "0"

// Category 图书分类
// 通过ParentID组成一棵树，ParentID为RootID表示顶级分类
type Category struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
	Name     string `json:"name"`
	Code     string `json:"code"`
}

// NewCategory 创建分类，parentID为空时挂在根下
func NewCategory(parentID, name, code string) *Category {
	if parentID == "" {
		parentID = RootID
	}
	return &Category{ParentID: parentID, Name: name, Code: code}
}

// IsRoot 是否为顶级分类
func (c *Category) IsRoot() bool {
	return c.ParentID == RootID
}

// Lookup 按ID查找分类，找不到返回nil
type Lookup func(id string) *Category

// ValidateParent 校验把id挂到parentID下是否合法
// 规则：
// 1. parentID必须是RootID或已存在的分类
// 2. 不能挂到自己或自己的子孙节点下（id为空表示新建，跳过环检测）
func ValidateParent(id, parentID string, lookup Lookup) error {
	if parentID == RootID {
		return nil
	}
	if lookup(parentID) == nil {
		return ErrParentNotFound
	}
	if id == "" {
		return nil
	}

	// 沿父链向上走，遇到自己说明成环；visited防止已有数据中的环导致死循环
	visited := map[string]bool{}
	for cur := parentID; cur != RootID && !visited[cur]; {
		if cur == id {
			return ErrCategoryCycle
		}
		visited[cur] = true
		node := lookup(cur)
		if node == nil {
			break
		}
		cur = node.ParentID
	}
	return nil
}

// 分类领域错误定义
var (
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeNotFound, "分类不存在")
	ErrParentNotFound   = apperrors.New(apperrors.ErrCodeBadRequest, "上级分类不存在")
	ErrCategoryCycle    = apperrors.New(apperrors.ErrCodeBadRequest, "不能将分类移动到自身或其子分类下")
	ErrNameRequired     = apperrors.New(apperrors.ErrCodeBadRequest, "分类名称不能为空")
)

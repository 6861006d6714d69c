package paging

import "strings"

// Direction 排序方向
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

func (d Direction) Value() string {
	return string(d)
}

// Order 单个排序条件：属性名 + 方向
type Order struct {
	Property  string
	Direction Direction
}

// Asc 创建升序排序条件
func Asc(property string) Order {
	return Order{Property: property, Direction: ASC}
}

// Desc 创建降序排序条件
func Desc(property string) Order {
	return Order{Property: property, Direction: DESC}
}

// Sort 有序的排序条件序列
type Sort []Order

// By 根据属性名创建排序（默认升序，与Spring的Sort.by保持一致的默认方向）
func By(properties ...string) Sort {
	sort := make(Sort, 0, len(properties))
	for _, p := range properties {
		sort = append(sort, Asc(p))
	}
	return sort
}

// ByDirection 根据方向和属性名创建排序
func ByDirection(direction Direction, properties ...string) Sort {
	sort := make(Sort, 0, len(properties))
	for _, p := range properties {
		sort = append(sort, Order{Property: p, Direction: direction})
	}
	return sort
}

// IsSorted 是否包含排序条件
func (s Sort) IsSorted() bool {
	return len(s) > 0
}

// OrderFor 查找指定属性的排序条件，不存在时返回false
func (s Sort) OrderFor(property string) (Order, bool) {
	for _, order := range s {
		if order.Property == property {
			return order, true
		}
	}
	return Order{}, false
}

// And 追加排序条件，返回新的Sort，原Sort不变
func (s Sort) And(other Sort) Sort {
	if len(other) == 0 {
		return s
	}
	merged := make(Sort, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)
	return merged
}

// Clause 渲染为SQL排序子句，如 "create_time DESC, id ASC"
func (s Sort) Clause() string {
	if len(s) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s))
	for _, order := range s {
		parts = append(parts, order.Property+" "+order.Direction.Value())
	}
	return strings.Join(parts, ", ")
}

// RequestedPage 客户端请求的页，由查询参数绑定
// 上游已校验：Number >= 0，Size >= 1
type RequestedPage struct {
	Number int `query:"page" json:"page" vd:"$>=0"`
	Size   int `query:"size" json:"size" vd:"$>=1 && $<=1000"`
}

// Pageable 数据访问层使用的分页描述，页码/页大小在排序合并下保持不变
type Pageable struct {
	Number int
	Size   int
	Sort   Sort
}

// ToPageable 将请求页转换为Pageable，排序为空
func ToPageable(page RequestedPage) Pageable {
	return Pageable{
		Number: page.Number,
		Size:   page.Size,
	}
}

// Of 根据页码和页大小创建Pageable
func Of(number, size int) Pageable {
	return Pageable{Number: number, Size: size}
}

// WithSort 追加排序条件，返回新的Pageable
// 只做追加：已有条件的顺序与方向不变，页码/页大小不变，重复属性不去重
func (p Pageable) WithSort(sort Sort) Pageable {
	return Pageable{
		Number: p.Number,
		Size:   p.Size,
		Sort:   p.Sort.And(sort),
	}
}

// Limit 页大小，用于SQL LIMIT
func (p Pageable) Limit() int {
	return p.Size
}

// Offset 偏移量，用于SQL OFFSET
func (p Pageable) Offset() int {
	return p.Number * p.Size
}

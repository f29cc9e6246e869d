package domain

import "go.mongodb.org/mongo-driver/bson"

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type SortOrder struct {
	Sort  string `bson:"sort" json:"sort"`   // 排序字段
	Order string `bson:"order" json:"order"` // 排序方式（asc 或 desc）
}

// SortDocument 将多字段排序转换为 $sort 文档，末尾追加 _id 保证排序稳定
func SortDocument(orders []SortOrder) bson.D {
	doc := make(bson.D, 0, len(orders)+1)
	hasID := false
	for _, o := range orders {
		dir := 1
		if o.Order == OrderDesc {
			dir = -1
		}
		if o.Sort == "_id" {
			hasID = true
		}
		doc = append(doc, bson.E{Key: o.Sort, Value: dir})
	}
	if !hasID {
		doc = append(doc, bson.E{Key: "_id", Value: -1})
	}
	return doc
}

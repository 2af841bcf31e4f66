package shopping

// BucketByCategory groups items into the fixed grocery-category order,
// dropping categories with no items. Items keep their source order within a
// bucket; anything with an unrecognized category lands in "other".
func BucketByCategory(items []ShoppingItem) []CategoryBucket {
	byCategory := make(map[GroceryCategory][]ShoppingItem)
	for _, item := range items {
		c := ParseCategory(string(item.Category))
		byCategory[c] = append(byCategory[c], item)
	}

	var buckets []CategoryBucket
	for _, c := range CategoryOrder {
		if grouped := byCategory[c]; len(grouped) > 0 {
			buckets = append(buckets, CategoryBucket{Category: c, Items: grouped})
		}
	}
	return buckets
}

package grouper

import "fmt"

// Post — упорядоченный набор уникальных URL изображений одного поста
type Post struct {
	Key    string
	Images []string
}

// GroupImages разбивает плоский список URL на посты и убирает
// дубликаты-размеры внутри каждого поста. Порядок постов и изображений
// следует порядку первого появления во входном списке.
func GroupImages(urls []string) []Post {
	groups := make(map[string][]string)
	var order []string

	for _, url := range urls {
		id := ParseIdentity(url)

		key := id.PostKey
		if key == "" {
			// Синтетический ключ: одиночная группа вместо потери URL
			key = fmt.Sprintf("single_%d", len(groups))
		}

		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], url)
	}

	var posts []Post
	for _, key := range order {
		images := dedupeSizes(groups[key])
		if len(images) == 0 {
			continue
		}
		posts = append(posts, Post{Key: key, Images: images})
	}

	return posts
}

// dedupeSizes оставляет по одной версии каждого изображения: побеждает
// наибольший приоритет размера, при равенстве — более поздний URL
func dedupeSizes(urls []string) []string {
	type candidate struct {
		url      string
		priority int
	}

	best := make(map[string]candidate)
	var order []string

	for _, url := range urls {
		id := ParseIdentity(url)

		prev, seen := best[id.CanonicalKey]
		if !seen {
			order = append(order, id.CanonicalKey)
			best[id.CanonicalKey] = candidate{url: url, priority: id.SizePriority}
			continue
		}
		if id.SizePriority >= prev.priority {
			best[id.CanonicalKey] = candidate{url: url, priority: id.SizePriority}
		}
	}

	result := make([]string, 0, len(order))
	for _, key := range order {
		result = append(result, best[key].url)
	}
	return result
}

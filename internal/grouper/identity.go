package grouper

import (
	"regexp"
	"strings"
)

// Приоритеты размеров: чем выше, тем предпочтительнее версия изображения
const (
	priorityUnknown  = 0 // URL не совпал с canonical-паттерном
	priorityThumb150 = 1
	priorityThumb320 = 2
	priorityThumb640 = 3
	priorityFullSize = 4
)

var (
	// Две группы цифр через подчёркивание; первые 9 цифр второй группы — ID поста
	postIDPattern = regexp.MustCompile(`/(\d+)_(\d{9})`)

	// Полный ID изображения, не зависящий от запрошенного размера:
	// две или три группы цифр через подчёркивание плюс маркер _n
	canonicalPattern = regexp.MustCompile(`/(\d+(?:_\d+){1,2}_n)`)
)

// Identity — результат разбора одного URL изображения.
// PostKey пустой, если URL не совпал с паттерном группировки.
type Identity struct {
	PostKey      string
	CanonicalKey string
	SizePriority int
}

// ParseIdentity разбирает URL по вендорской конвенции CDN.
// Единственная точка, привязанная к формату URL: партиционирование и
// дедупликация работают только с полями Identity.
func ParseIdentity(url string) Identity {
	id := Identity{}

	if m := postIDPattern.FindStringSubmatch(url); m != nil {
		id.PostKey = m[2]
	}

	if m := canonicalPattern.FindStringSubmatch(url); m != nil {
		id.CanonicalKey = m[1]
		id.SizePriority = sizePriority(url)
	} else {
		// Неопознанный URL живёт под собственным ключом и не вытесняется
		id.CanonicalKey = url
		id.SizePriority = priorityUnknown
	}

	return id
}

func sizePriority(url string) int {
	switch {
	case strings.Contains(url, "s150x150"):
		return priorityThumb150
	case strings.Contains(url, "s320x320"):
		return priorityThumb320
	case strings.Contains(url, "s640x640"):
		return priorityThumb640
	default:
		return priorityFullSize
	}
}

package checksum

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateResultHash генерирует SHA256 хеш структуры результата скрейпа
// Формула: SHA256(username|post1_url1,post1_url2|post2_url1|...)
func (g *Generator) GenerateResultHash(username string, posts [][]string) string {
	var b strings.Builder
	b.WriteString(username)

	for _, post := range posts {
		b.WriteString("|")
		b.WriteString(strings.Join(post, ","))
	}

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", hash)
}

// VerifyResultHash проверяет соответствие хеша
func (g *Generator) VerifyResultHash(expectedHash, username string, posts [][]string) bool {
	return g.GenerateResultHash(username, posts) == expectedHash
}

package lobby

import "strings"

// codeAlphabet leaves out characters that are easy to misread
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const maxCodeAttempts = 10

func (s *service) newCode() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(codeAlphabet[s.random.Intn(len(codeAlphabet))])
	}
	return b.String()
}

// normalizeCode makes codes case-insensitive for players typing them in
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

package entity

import (
	"strings"
	"time"
	"unicode"
)

// Nombres de los locales sembrados por cmd/seed.
const (
	LocationStore = "LojaPark"
	LocationBar   = "BarPlaypub"
)

// Location representa un local físico con stock propio (tabla stocks).
type Location struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Destination devuelve la etiqueta de destino por defecto para retiradas hechas desde este local.
// LojaPark -> LOJA_PARK. El bar conserva la etiqueta histórica BAR_PUB.
func (l *Location) Destination() string {
	if l == nil {
		return ""
	}
	if l.Name == LocationBar {
		return "BAR_PUB"
	}
	return upperSnake(l.Name)
}

func upperSnake(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return b.String()
}

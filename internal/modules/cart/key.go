package cart

import "strings"

// Key identifies a cart line: the same product in two sizes is two lines.
type Key struct {
	ProductID string
	Size      string
}

func (k Key) String() string {
	if k.Size == "" {
		return k.ProductID
	}
	return k.ProductID + ":" + k.Size
}

// ParseKey reverses Key.String. catalog.CheckID keeps ':' out of product ids;
// sizes may contain it.
func ParseKey(s string) Key {
	s = strings.TrimSpace(s)
	i := strings.Index(s, ":")
	if i < 0 {
		return Key{ProductID: s}
	}
	return Key{ProductID: s[:i], Size: s[i+1:]}
}

package reconcile

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/mestredagrelha/grelha/internal/models"
	"github.com/mestredagrelha/grelha/internal/util"
)

// ErrEmptyName is returned when an item is created without a name.
var ErrEmptyName = errors.New("item name is required")

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9_]`)
)

// fallbackSlug is used when a name has no character that survives slugging.
const fallbackSlug = "item"

// Slugify turns a display name into an identifier: lower case, accents
// folded, whitespace to underscores, everything outside [a-z0-9_] dropped.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = util.FoldDiacritics(s)
	s = whitespaceRun.ReplaceAllString(s, "_")
	return nonSlugChars.ReplaceAllString(s, "")
}

// UniqueID returns base, or base_1, base_2, ... whichever is first free.
func UniqueID(reg models.Registry, base string) string {
	id := base
	for n := 1; ; n++ {
		if _, taken := reg.Find(id); !taken {
			return id
		}
		id = base + "_" + strconv.Itoa(n)
	}
}

// AddItem appends a new item. A negative initial stock is clamped to zero.
func AddItem(reg models.Registry, name string, initialStock int) (models.Registry, models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return reg, models.Item{}, ErrEmptyName
	}

	base := Slugify(name)
	if base == "" {
		base = fallbackSlug
	}

	item := models.Item{
		ID:    UniqueID(reg, base),
		Name:  name,
		Stock: max(initialStock, 0),
	}

	out := make(models.Registry, len(reg), len(reg)+1)
	copy(out, reg)
	out = append(out, item)
	return out, item, nil
}

package usecase_catalog

import (
	"strconv"
	"strings"

	"github.com/listny/listny-backend/domain"
	"golang.org/x/text/unicode/norm"
)

// normalizeText 统一为 NFC 并去掉首尾空白，使同一标题的不同编码形式能被精确匹配
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func parseYear(raw string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || year < 0 {
		return 0, domain.Validation("invalid year: %s", raw)
	}
	return year, nil
}

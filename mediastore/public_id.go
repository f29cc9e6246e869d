package mediastore

import (
	"net/url"
	"path"
	"strings"
)

// DerivePublicID 从托管 URL 推导资源标识：<folder>/<文件名去掉最后一个扩展名>。
// 只用于上传时没有记录 publicId 的旧文档
func DerivePublicID(folder, rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", false
	}

	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}

	base := path.Base(p)
	if base == "." || base == "/" {
		return "", false
	}
	// 资源标识本身可以带点，只去掉最后一段扩展名
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "" {
		return "", false
	}

	if folder == "" {
		return name, true
	}
	return strings.TrimSuffix(folder, "/") + "/" + name, true
}

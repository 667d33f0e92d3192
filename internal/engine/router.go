package engine

import (
	"context"
	"net/url"
	"strings"
)

// APIPrefix 可选的路径前缀，/api/v1/books与/books等价
const APIPrefix = "/api/v1"

type handlerFunc func(ctx context.Context, c *call) (any, error)

// route 路由表中的一项
// pattern形如/users/{id}，花括号段匹配任意非空段
type route struct {
	method   string
	pattern  string
	segments []string
	handle   handlerFunc
}

type router struct {
	routes []*route
}

func (r *router) add(method, pattern string, h handlerFunc) {
	r.routes = append(r.routes, &route{
		method:   method,
		pattern:  pattern,
		segments: splitPath(pattern),
		handle:   h,
	})
}

// match 按登记顺序查找第一条匹配的路由
func (r *router) match(method, path string) (*route, map[string]string) {
	segs := splitPath(path)
	for _, rt := range r.routes {
		if rt.method != method {
			continue
		}
		if params, ok := matchSegments(rt.segments, segs); ok {
			return rt, params
		}
	}
	return nil, nil
}

func matchSegments(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if name, ok := paramName(p); ok {
			if params == nil {
				params = map[string]string{}
			}
			params[name] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

func paramName(seg string) (string, bool) {
	if len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}

// normalizePath 去掉查询串、可选前缀和末尾斜杠
func normalizePath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == APIPrefix || strings.HasPrefix(path, APIPrefix+"/") {
		path = strings.TrimPrefix(path, APIPrefix)
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		return "/"
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return path
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if unescaped, err := url.PathUnescape(s); err == nil {
			segs[i] = unescaped
		}
	}
	return segs
}

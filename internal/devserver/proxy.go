package devserver

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/errors"
	"github.com/ksyq12/spabuild/internal/logger"
)

// newProxy returns a reverse proxy forwarding to rule.Target with the
// request path unchanged.
func newProxy(rule config.ProxyRule, log *logger.Component) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(rule.Target)
	if err != nil {
		return nil, errors.WrapSubject(errors.ErrCodeProxy, rule.Prefix, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, errors.Validationf("proxy target for %s must be an absolute URL, got %q", rule.Prefix, rule.Target)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			if !rule.ChangeOrigin {
				pr.Out.Host = pr.In.Host
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn("proxy %s %s -> %s: %v", r.Method, r.URL.Path, rule.Target, err)
			http.Error(w, "proxy error: "+err.Error(), http.StatusBadGateway)
		},
	}, nil
}

// proxyRequests forwards requests matching a proxy prefix and passes the
// rest on.
func (s *Server) proxyRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rule, ok := s.cfg.MatchProxy(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		s.proxies[rule.Prefix].ServeHTTP(w, r)
	})
}

package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は外部API（画像サービス）呼び出し用のHTTPクライアントを作成します。
//
// http.DefaultClient にはタイムアウトがないため、常にこのクライアントを使用すること。
// timeout はリクエスト全体の上限で、0以下の場合は10秒になります。
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

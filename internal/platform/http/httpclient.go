package http

import (
	"net"
	"net/http"
	"time"
)

// maxIdlePerHost は同一ホストに対して保持するアイドル接続数。
// プロバイダ呼び出しは単一ホストに集中するため、既定値の 2 より多く取る。
const maxIdlePerHost = 10

// NewHTTPClient はマーケットデータ取得用の HTTP クライアントを作成します。
//
// 設定:
//   - Client.Timeout: リクエスト全体のタイムアウト（PROVIDER_TIMEOUT）
//   - ResponseHeaderTimeout: timeout が正の場合のみ、ヘッダ受信までの上限として同じ値を使用
//   - MaxIdleConnsPerHost: 銘柄ごとの連続呼び出しで接続を再利用するため maxIdlePerHost
//
// timeout が 0 の場合はタイムアウトなしになるので、呼び出し側で必ず正の値を渡すこと。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: maxIdlePerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	if timeout > 0 {
		t.ResponseHeaderTimeout = timeout
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

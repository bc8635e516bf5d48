package transport

import (
	"io"
	"net/http"
	"time"

	perr "eidclient/internal/platform/errors"
)

// MaxBody caps how much of a response is read
const MaxBody = 1 << 20

// Exchange is one finished request/response with the remote service
type Exchange struct {
	Status  int
	Header  http.Header
	Body    []byte
	Latency time.Duration
}

// OK reports a 2xx status
func (x Exchange) OK() bool { return x.Status >= 200 && x.Status < 300 }

var now = time.Now

// Do sends req and reads at most MaxBody bytes of the answer
// Any failure before a complete body is read is a transport error
func Do(c *http.Client, req *http.Request) (Exchange, error) {
	start := now()
	resp, err := c.Do(req)
	if err != nil {
		return Exchange{}, perr.Wrapf(err, perr.ErrorCodeTransport, "%s %s", req.Method, req.URL.Redacted())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody+1))
	x := Exchange{Status: resp.StatusCode, Header: resp.Header, Body: body, Latency: now().Sub(start)}
	if err != nil {
		return x, perr.Wrap(err, perr.ErrorCodeTransport, "read response body")
	}
	if len(body) > MaxBody {
		return x, perr.Malformedf("response body exceeds %d bytes", MaxBody)
	}
	return x, nil
}

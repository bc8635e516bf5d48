package rptest

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"testing"
)

var legacyOps = map[string]string{
	"SignRequest":         OpSign,
	"AuthenticateRequest": OpAuth,
	"orderRef":            OpCollect,
}

// NewLegacy starts a v4 SOAP fake serving under /rp/v4
// Script steps are progress codes such as "OUTSTANDING_TRANSACTION" or "COMPLETE";
// "fault:CODE" answers the collect with a SOAP fault carrying CODE
func NewLegacy(t *testing.T) *Server {
	s := newServer(t, "/rp/v4", func(s *Server) http.Handler {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /rp/v4", func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			var in struct {
				Body struct {
					Op struct {
						XMLName xml.Name
						Text    string `xml:",chardata"`
					} `xml:",any"`
				} `xml:"Body"`
			}
			if err := xml.Unmarshal(body, &in); err != nil {
				WriteFault(w, "soapenv:Client", "INVALID_PARAMETERS", "unparsable envelope")
				return
			}
			op, ok := legacyOps[in.Body.Op.XMLName.Local]
			if !ok {
				WriteFault(w, "soapenv:Client", "INVALID_PARAMETERS", "unknown operation")
				return
			}
			if h := s.record(op, r, body); h != nil {
				h(w, r)
				return
			}
			s.serveLegacy(w, op, strings.TrimSpace(in.Body.Op.Text))
		})
		return mux
	})
	s.Script("OUTSTANDING_TRANSACTION")
	return s
}

const soapOpen = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<S:Envelope xmlns:S="http://schemas.xmlsoap.org/soap/envelope/"><S:Body>`

const soapClose = `</S:Body></S:Envelope>`

// WriteSOAP answers with inner wrapped in a SOAP envelope
func WriteSOAP(w http.ResponseWriter, status int, inner string) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, soapOpen+inner+soapClose)
}

// WriteFault answers with a SOAP fault whose RpFault carries status
func WriteFault(w http.ResponseWriter, faultCode, status, description string) {
	WriteSOAP(w, http.StatusInternalServerError, fmt.Sprintf(
		`<S:Fault><faultcode>%s</faultcode><faultstring>%s</faultstring>`+
			`<detail><ns2:RpFault xmlns:ns2="http://bankid.com/RpService/v4.0.0/types/">`+
			`<faultStatus>%s</faultStatus><detailedDescription>%s</detailedDescription>`+
			`</ns2:RpFault></detail></S:Fault>`,
		html.EscapeString(faultCode), html.EscapeString(status),
		html.EscapeString(status), html.EscapeString(description)))
}

func (s *Server) serveLegacy(w http.ResponseWriter, op, ref string) {
	const ns = `xmlns:ns2="http://bankid.com/RpService/v4.0.0/types/"`
	switch op {
	case OpSign, OpAuth:
		name := "SignResponse"
		if op == OpAuth {
			name = "AuthenticateResponse"
		}
		ref := s.newOrder()
		WriteSOAP(w, http.StatusOK, fmt.Sprintf(
			`<ns2:%s %s><orderRef>%s</orderRef><autoStartToken>ast-%s</autoStartToken></ns2:%s>`,
			name, ns, ref, ref, name))
	case OpCollect:
		step, ok := s.step(ref)
		if !ok {
			WriteFault(w, "soapenv:Server", "INVALID_PARAMETERS", "No such order")
			return
		}
		if code, isFault := strings.CutPrefix(step, "fault:"); isFault {
			WriteFault(w, "soapenv:Server", code, "scripted fault")
			return
		}
		inner := fmt.Sprintf(`<progressStatus>%s</progressStatus>`, step)
		if step == "COMPLETE" {
			inner += fmt.Sprintf(`<signature>%s</signature>`+
				`<userInfo><givenName>%s</givenName><surname>%s</surname><name>%s</name>`+
				`<personalNumber>%s</personalNumber><notBefore>2017-08-17T00:00:00.000+02:00</notBefore>`+
				`<notAfter>2019-07-19T23:59:59.000+02:00</notAfter><ipAddress>192.0.2.10</ipAddress></userInfo>`+
				`<ocspResponse>%s</ocspResponse>`,
				Signature, GivenName, Surname, Name, PersonalNumber, OCSPResponse)
		}
		WriteSOAP(w, http.StatusOK, fmt.Sprintf(`<ns2:CollectResponse %s>%s</ns2:CollectResponse>`, ns, inner))
	}
}

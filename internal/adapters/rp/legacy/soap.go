package legacy

import "encoding/xml"

// Namespaces of the v4 RP service
const (
	nsSOAP  = "http://schemas.xmlsoap.org/soap/envelope/"
	nsTypes = "http://bankid.com/RpService/v4.0.0/types/"
)

// Outbound envelope. Prefixed names are written literally
type envelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`
	NSSoap  string   `xml:"xmlns:soapenv,attr"`
	NSTypes string   `xml:"xmlns:typ,attr"`
	Header  struct{} `xml:"soapenv:Header"`
	Body    struct {
		Content any
	} `xml:"soapenv:Body"`
}

func wrap(content any) envelope {
	e := envelope{NSSoap: nsSOAP, NSTypes: nsTypes}
	e.Body.Content = content
	return e
}

type endUserInfo struct {
	Type  string `xml:"type"`
	Value string `xml:"value"`
}

type condition struct {
	Key   string `xml:"key"`
	Value string `xml:"value"`
}

type requirementAlternatives struct {
	Conditions []condition `xml:"requirement>condition"`
}

var allowFingerprint = &requirementAlternatives{Conditions: []condition{{Key: "allowFingerprint", Value: "yes"}}}

type signRequest struct {
	XMLName            xml.Name                 `xml:"typ:SignRequest"`
	PersonalNumber     string                   `xml:"personalNumber,omitempty"`
	EndUserInfo        *endUserInfo             `xml:"endUserInfo,omitempty"`
	Requirement        *requirementAlternatives `xml:"requirementAlternatives,omitempty"`
	UserVisibleData    string                   `xml:"userVisibleData"`
	UserNonVisibleData string                   `xml:"userNonVisibleData,omitempty"`
}

type authRequest struct {
	XMLName        xml.Name     `xml:"typ:AuthenticateRequest"`
	PersonalNumber string       `xml:"personalNumber,omitempty"`
	EndUserInfo    *endUserInfo `xml:"endUserInfo,omitempty"`
}

type collectRequest struct {
	XMLName  xml.Name `xml:"typ:orderRef"`
	OrderRef string   `xml:",chardata"`
}

// Inbound envelope, matched on local names so any prefix binding works
type responseEnvelope struct {
	Body struct {
		Sign    *orderResponse   `xml:"SignResponse"`
		Auth    *orderResponse   `xml:"AuthenticateResponse"`
		Collect *collectResponse `xml:"CollectResponse"`
		Fault   *fault           `xml:"Fault"`
	} `xml:"Body"`
}

type orderResponse struct {
	OrderRef       string `xml:"orderRef"`
	AutoStartToken string `xml:"autoStartToken"`
}

type userInfo struct {
	GivenName      string `xml:"givenName"`
	Surname        string `xml:"surname"`
	Name           string `xml:"name"`
	PersonalNumber string `xml:"personalNumber"`
	NotBefore      string `xml:"notBefore"`
	NotAfter       string `xml:"notAfter"`
	IPAddress      string `xml:"ipAddress"`
}

type collectResponse struct {
	ProgressStatus string    `xml:"progressStatus"`
	Signature      string    `xml:"signature"`
	UserInfo       *userInfo `xml:"userInfo"`
	OCSPResponse   string    `xml:"ocspResponse"`
}

type fault struct {
	Code        string `xml:"faultcode"`
	String      string `xml:"faultstring"`
	Status      string `xml:"detail>RpFault>faultStatus"`
	Description string `xml:"detail>RpFault>detailedDescription"`
}

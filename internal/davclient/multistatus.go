package davclient

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Listing holds the immediate children of a collection, split by kind.
type Listing struct {
	Collections []*url.URL
	Files       []*url.URL
}

// Relevant DTD fragments from RFC 4918:
//
//	<!ELEMENT multistatus (response*, responsedescription?)>
//	<!ELEMENT response (href, ((href*, status)|(propstat+)),
//	                    error?, responsedescription?, location?)>
//	<!ELEMENT propstat (prop, status, error?, responsedescription?)>
type multistatus struct {
	XMLName   xml.Name     `xml:"DAV: multistatus"`
	Responses []msResponse `xml:"response"`
}

type msResponse struct {
	Href      string       `xml:"href"`
	Propstats []msPropstat `xml:"propstat"`
}

type msPropstat struct {
	Status string `xml:"status"`
	Prop   msProp `xml:"prop"`
}

type msProp struct {
	ResourceType msResourceType `xml:"resourcetype"`
}

type msResourceType struct {
	Collection *struct{} `xml:"collection"`
}

// parseMultistatus decodes a PROPFIND Depth:1 response body and resolves each
// href against base. The response for selfURL itself (which servers include in
// Depth:1 listings) is dropped.
func parseMultistatus(r io.Reader, base, selfURL *url.URL) (Listing, error) {
	var ms multistatus
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&ms); err != nil {
		return Listing{}, fmt.Errorf("decode multistatus: %w", err)
	}

	var listing Listing
	for _, resp := range ms.Responses {
		href := strings.TrimSpace(resp.Href)
		if href == "" {
			continue
		}
		child, err := base.Parse(href)
		if err != nil {
			return Listing{}, fmt.Errorf("resolve href %q: %w", href, err)
		}
		isCollection := false
		for _, ps := range resp.Propstats {
			if !statusIsOK(ps.Status) {
				continue
			}
			if ps.Prop.ResourceType.Collection != nil {
				isCollection = true
			}
		}
		if isCollection {
			if sameResource(child, selfURL) {
				continue
			}
			listing.Collections = append(listing.Collections, child)
		} else {
			listing.Files = append(listing.Files, child)
		}
	}
	return listing, nil
}

// statusIsOK reports whether a propstat status line such as
// "HTTP/1.1 200 OK" carries a 2xx code. An empty status is treated as OK
// since some servers omit it for successful propstats.
func statusIsOK(status string) bool {
	status = strings.TrimSpace(status)
	if status == "" {
		return true
	}
	fields := strings.Fields(status)
	if len(fields) < 2 {
		return false
	}
	return strings.HasPrefix(fields[1], "2")
}

// sameResource compares two URLs ignoring a trailing slash, which WebDAV
// servers add to collection hrefs.
func sameResource(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return strings.TrimSuffix(a.String(), "/") == strings.TrimSuffix(b.String(), "/")
}

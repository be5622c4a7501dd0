package davclient

import (
	"net/url"
	"strings"
	"testing"
)

const multistatusFixture = `<?xml version="1.0" encoding="utf-8"?>
<multistatus xmlns="DAV:">
  <response>
    <href>/zarrs/0395d0a.zarr/</href>
    <propstat>
      <prop><resourcetype><collection/></resourcetype></prop>
      <status>HTTP/1.1 200 OK</status>
    </propstat>
  </response>
  <response>
    <href>/zarrs/0395d0a.zarr/0/</href>
    <propstat>
      <prop><resourcetype><collection/></resourcetype></prop>
      <status>HTTP/1.1 200 OK</status>
    </propstat>
  </response>
  <response>
    <href>/zarrs/0395d0a.zarr/1/</href>
    <propstat>
      <prop><resourcetype><collection/></resourcetype></prop>
      <status>HTTP/1.1 200 OK</status>
    </propstat>
  </response>
  <response>
    <href>/zarrs/0395d0a.zarr/.zattrs</href>
    <propstat>
      <prop><resourcetype/></prop>
      <status>HTTP/1.1 200 OK</status>
    </propstat>
  </response>
  <response>
    <href>/zarrs/0395d0a.zarr/.zgroup</href>
    <propstat>
      <prop><resourcetype/></prop>
      <status>HTTP/1.1 200 OK</status>
    </propstat>
  </response>
</multistatus>
`

func parseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestParseMultistatusSplitsKindsAndSkipsSelf(t *testing.T) {
	base := parseURL(t, "https://dav.test/zarrs/0395d0a.zarr/")
	listing, err := parseMultistatus(strings.NewReader(multistatusFixture), base, base)
	if err != nil {
		t.Fatalf("parseMultistatus: %v", err)
	}

	wantDirs := []string{
		"https://dav.test/zarrs/0395d0a.zarr/0/",
		"https://dav.test/zarrs/0395d0a.zarr/1/",
	}
	if len(listing.Collections) != len(wantDirs) {
		t.Fatalf("got %d collections, want %d: %v", len(listing.Collections), len(wantDirs), listing.Collections)
	}
	for i, want := range wantDirs {
		if got := listing.Collections[i].String(); got != want {
			t.Errorf("collection[%d] = %s, want %s", i, got, want)
		}
	}

	wantFiles := []string{
		"https://dav.test/zarrs/0395d0a.zarr/.zattrs",
		"https://dav.test/zarrs/0395d0a.zarr/.zgroup",
	}
	if len(listing.Files) != len(wantFiles) {
		t.Fatalf("got %d files, want %d: %v", len(listing.Files), len(wantFiles), listing.Files)
	}
	for i, want := range wantFiles {
		if got := listing.Files[i].String(); got != want {
			t.Errorf("file[%d] = %s, want %s", i, got, want)
		}
	}
}

func TestParseMultistatusSelfWithoutTrailingSlash(t *testing.T) {
	base := parseURL(t, "https://dav.test/zarrs/0395d0a.zarr/")
	// Request URL without trailing slash still matches the self response.
	self := parseURL(t, "https://dav.test/zarrs/0395d0a.zarr")
	listing, err := parseMultistatus(strings.NewReader(multistatusFixture), base, self)
	if err != nil {
		t.Fatalf("parseMultistatus: %v", err)
	}
	if len(listing.Collections) != 2 {
		t.Errorf("got %d collections, want 2 (self not filtered?)", len(listing.Collections))
	}
}

func TestParseMultistatusAbsoluteHrefs(t *testing.T) {
	body := `<?xml version="1.0" encoding="utf-8"?>
<multistatus xmlns="DAV:">
  <response>
    <href>https://other.test/elsewhere/file.bin</href>
    <propstat>
      <prop><resourcetype/></prop>
      <status>HTTP/1.1 200 OK</status>
    </propstat>
  </response>
</multistatus>
`
	base := parseURL(t, "https://dav.test/root/")
	listing, err := parseMultistatus(strings.NewReader(body), base, base)
	if err != nil {
		t.Fatalf("parseMultistatus: %v", err)
	}
	if len(listing.Files) != 1 || listing.Files[0].String() != "https://other.test/elsewhere/file.bin" {
		t.Errorf("absolute href not passed through: %v", listing.Files)
	}
}

func TestParseMultistatusFailedPropstatIgnored(t *testing.T) {
	// A 404 propstat on resourcetype must not classify the child as a
	// collection.
	body := `<?xml version="1.0" encoding="utf-8"?>
<multistatus xmlns="DAV:">
  <response>
    <href>/root/odd</href>
    <propstat>
      <prop><resourcetype><collection/></resourcetype></prop>
      <status>HTTP/1.1 404 Not Found</status>
    </propstat>
  </response>
</multistatus>
`
	base := parseURL(t, "https://dav.test/root/")
	listing, err := parseMultistatus(strings.NewReader(body), base, base)
	if err != nil {
		t.Fatalf("parseMultistatus: %v", err)
	}
	if len(listing.Collections) != 0 {
		t.Errorf("404 propstat produced a collection: %v", listing.Collections)
	}
	if len(listing.Files) != 1 {
		t.Errorf("got %d files, want 1", len(listing.Files))
	}
}

func TestParseMultistatusMalformedXML(t *testing.T) {
	base := parseURL(t, "https://dav.test/root/")
	if _, err := parseMultistatus(strings.NewReader("<multistatus"), base, base); err == nil {
		t.Error("expected error for malformed XML")
	}
}

func TestStatusIsOK(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"HTTP/1.1 200 OK", true},
		{"HTTP/1.1 207 Multi-Status", true},
		{"HTTP/1.1 404 Not Found", false},
		{"HTTP/1.1 500 Internal Server Error", false},
		{"", true},
		{"garbage", false},
	}
	for _, c := range cases {
		if got := statusIsOK(c.status); got != c.want {
			t.Errorf("statusIsOK(%q) = %v, want %v", c.status, got, c.want)
		}
	}
}

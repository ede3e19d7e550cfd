package github

import "net/url"

// SetBaseURLForTest points the fetcher at a test server.
func SetBaseURLForTest(f *Fetcher, raw string) error {
	u, err := url.Parse(raw + "/")
	if err != nil {
		return err
	}

	f.client.BaseURL = u

	return nil
}

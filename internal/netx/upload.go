// Package netx holds small networking helpers shared by client components.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// UploadToPresignedURL PUTs raw bytes to a presigned object-storage URL.
// Used to push prompt image payloads to the asset bucket.
func UploadToPresignedURL(url string, data []byte) error {
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}

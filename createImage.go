// createImage.go
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"

	"github.com/chromedp/chromedp"
)

// generateImage rasterises the chart SVG with headless Chrome and writes it
// as PNG or JPEG.
func generateImage(ctx context.Context, svg string, format string, w io.Writer, logger *slog.Logger) error {
	// Load the SVG from a data URI, no temp file needed
	dataURI := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var screenshot []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &screenshot, chromedp.ByQuery),
	}

	logger.Debug("running chromedp screenshot")
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(screenshot) == 0 {
		return fmt.Errorf("screenshot buffer is empty, screenshot failed")
	}

	switch format {
	case "png":
		// Screenshot is already PNG
		if _, err := io.Copy(w, bytes.NewReader(screenshot)); err != nil {
			return fmt.Errorf("failed to write PNG screenshot data: %w", err)
		}
	case "jpg", "jpeg":
		img, err := png.Decode(bytes.NewReader(screenshot))
		if err != nil {
			return fmt.Errorf("failed to decode PNG screenshot: %w", err)
		}
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 90}); err != nil {
			return fmt.Errorf("failed to encode JPEG: %w", err)
		}
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}

	logger.Debug("image encoded", "format", format, "bytes", len(screenshot))
	return nil
}

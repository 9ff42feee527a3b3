package chart

import (
	"fmt"
	"net/url"
)

const (
	defaultEmbedWidth  = 800
	defaultEmbedHeight = 600
)

func buildShare(baseURL string, chart *Chart, req ShareRequest) (*Share, error) {
	publicURL := fmt.Sprintf("%s/shared/charts/%s", baseURL, chart.ID)
	share := &Share{ChartID: chart.ID, Type: req.Type}

	switch req.Type {
	case ShareTypePublicLink:
		share.URL = publicURL
		share.Title = chart.Name + " - ChartCraft"
		share.Description = chart.Config.Description
		if share.Description == "" {
			share.Description = "Interactive chart created with ChartCraft"
		}
	case ShareTypeEmbed:
		share.Width = req.Width
		if share.Width <= 0 {
			share.Width = defaultEmbedWidth
		}
		share.Height = req.Height
		if share.Height <= 0 {
			share.Height = defaultEmbedHeight
		}
		share.EmbedCode = fmt.Sprintf(`<iframe src="%s/embed/charts/%s" width="%d" height="%d" frameborder="0"></iframe>`,
			baseURL, chart.ID, share.Width, share.Height)
	case ShareTypeSocial:
		text := url.QueryEscape("Check out this chart: " + chart.Name)
		link := url.QueryEscape(publicURL)
		share.Platforms = map[string]string{
			"twitter":  "https://twitter.com/intent/tweet?text=" + text + "&url=" + link,
			"linkedin": "https://www.linkedin.com/sharing/share-offsite/?url=" + link,
			"facebook": "https://www.facebook.com/sharer/sharer.php?u=" + link,
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidShareType, req.Type)
	}
	return share, nil
}

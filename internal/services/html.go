package services

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/otoge/internal/shared"
	"golang.org/x/net/html"
)

// TextNodes returns the descendant text nodes of sel in document order.
func TextNodes(sel *goquery.Selection) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n.Data)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}

// JoinText joins the descendant text nodes of sel with sep.
func JoinText(sel *goquery.Selection, sep string) string {
	return strings.Join(TextNodes(sel), sep)
}

// FirstText returns the first descendant text node of sel.
func FirstText(sel *goquery.Selection) (string, error) {
	nodes := TextNodes(sel)
	if len(nodes) == 0 {
		return "", fmt.Errorf("%w: %s has no text", shared.ErrDecode, describe(sel))
	}
	return nodes[0], nil
}

// RequireAttr returns attribute name of the first element in sel.
func RequireAttr(sel *goquery.Selection, name string) (string, error) {
	v, ok := sel.Attr(name)
	if !ok {
		return "", fmt.Errorf("%w: %s has no %s attribute", shared.ErrDecode, describe(sel), name)
	}
	return v, nil
}

// RequireOne returns the first match of selector under sel.
func RequireOne(sel *goquery.Selection, selector string) (*goquery.Selection, error) {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, fmt.Errorf("%w: no element matches %q", shared.ErrDecode, selector)
	}
	return found, nil
}

func describe(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return "empty selection"
	}
	name := goquery.NodeName(sel)
	if class, ok := sel.Attr("class"); ok {
		return name + "." + strings.ReplaceAll(class, " ", ".")
	}
	return name
}

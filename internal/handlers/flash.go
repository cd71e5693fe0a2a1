package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Flash notices ride on a short-lived cookie: set before a redirect, read and
// cleared on the next render.

type Flash struct {
	Kind    string // success | error
	Message string
}

func setFlash(w http.ResponseWriter, kind, message string) {
	v := url.QueryEscape(kind + "|" + message)
	http.SetCookie(w, &http.Cookie{Name: "flash", Value: v, Path: "/"})
}

func takeFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie("flash")
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: "flash", Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
	dec, derr := url.QueryUnescape(c.Value)
	if derr != nil {
		dec = c.Value
	}
	kind, msg, found := strings.Cut(dec, "|")
	if !found {
		return &Flash{Kind: "success", Message: dec}
	}
	return &Flash{Kind: kind, Message: msg}
}

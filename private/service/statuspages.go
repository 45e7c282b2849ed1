// Copyright 2025 OpenFabric Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package service contains the status page infrastructure shared by the
// controller binaries.
package service

import (
	"fmt"
	"html/template"
	"net/http"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/openfabric/fabric/pkg/log"
	"github.com/openfabric/fabric/pkg/private/serrors"
	"github.com/openfabric/fabric/private/env"
)

const mainTemplate = `
<!DOCTYPE html>
<html lang="en">
<head><title>{{ .ElemId }}</title></head>
<body style="font-family:monospace">
<h1>{{ .ElemId }}</h1>
{{ range .Pages }}
<p><a href="/{{ .Path }}">[{{ .Path }}]</a> {{ .Info }}</p>
{{ end }}
</body>
</html>
`

// StatusPage describes a status page of the web server.
type StatusPage struct {
	// Info holds a description of the status page.
	Info string
	// Handler is the HTTP handler of the status page.
	Handler http.HandlerFunc
}

// StatusPages describes the status pages of the web server, keyed by path.
type StatusPages map[string]StatusPage

// Register registers the pages with the given ServeMux, and additionally
// serves an index of all pages at the root.
func (s StatusPages) Register(mux *http.ServeMux, elemId string) error {
	mainPage, err := s.mainPage(elemId)
	if err != nil {
		return err
	}
	mux.HandleFunc("/", mainPage)
	for path, page := range s {
		if path == "" {
			return serrors.New("empty status page path not allowed")
		}
		mux.HandleFunc("/"+path, page.Handler)
	}
	return nil
}

func (s StatusPages) mainPage(elemId string) (http.HandlerFunc, error) {
	tmpl, err := template.New("main").Parse(mainTemplate)
	if err != nil {
		return nil, serrors.Wrap("parsing status page template", err)
	}
	type pageEntry struct {
		Path string
		Info string
	}
	data := struct {
		ElemId string
		Pages  []pageEntry
	}{
		ElemId: elemId,
	}
	for path, page := range s {
		data.Pages = append(data.Pages, pageEntry{Path: path, Info: page.Info})
	}
	sort.Slice(data.Pages, func(i, j int) bool { return data.Pages[i].Path < data.Pages[j].Path })
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if err := tmpl.Execute(w, data); err != nil {
			http.Error(w, "Unable to render index", http.StatusInternalServerError)
		}
	}, nil
}

// NewInfoStatusPage returns a page with basic process information.
func NewInfoStatusPage() StatusPage {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, env.VersionInfo())
	}
	return StatusPage{
		Info:    "version and build information",
		Handler: handler,
	}
}

// NewConfigStatusPage returns a page with the currently loaded configuration.
func NewConfigStatusPage(config any) StatusPage {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		if err := toml.NewEncoder(w).Encode(config); err != nil {
			http.Error(w, "Unable to marshal configuration", http.StatusInternalServerError)
		}
	}
	return StatusPage{
		Info:    "run-time configuration",
		Handler: handler,
	}
}

// NewLogLevelStatusPage returns a page that reads (GET) and changes (PUT) the
// console logging level.
func NewLogLevelStatusPage() StatusPage {
	return StatusPage{
		Info:    "logging level (supports PUT)",
		Handler: log.ConsoleLevel.ServeHTTP,
	}
}

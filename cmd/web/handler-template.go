package main

import (
	"bytes"
	"net/http"

	"github.com/villesola/traincal/internal/errors"
	"github.com/villesola/traincal/internal/schedule"
	"github.com/yuin/goldmark"
)

type templateResponse struct {
	schedule.Template
	DescriptionHTML string `json:"descriptionHtml"`
}

// templateGET returns one content-library template with its exercises and the
// description rendered from Markdown.
func (app *application) templateGET(w http.ResponseWriter, r *http.Request) {
	templateID, ok := app.parseTemplateIDParam(w, r)
	if !ok {
		return
	}

	template, err := app.scheduleService.GetTemplate(r.Context(), templateID)
	if err != nil {
		app.writeError(w, r, err)
		return
	}

	var description bytes.Buffer
	if template.DescriptionMarkdown != "" {
		if err = goldmark.Convert([]byte(template.DescriptionMarkdown), &description); err != nil {
			app.serverError(w, r, errors.Wrap(err, "render template description"))
			return
		}
	}

	app.writeJSON(w, r, http.StatusOK, templateResponse{
		Template:        template,
		DescriptionHTML: description.String(),
	})
}

package main

import "runtime"

// Documentation describes the annotator to the DUUI driver.
type Documentation struct {
	AnnotatorName          string            `json:"annotator_name"`
	Version                string            `json:"version"`
	ImplementationLang     *string           `json:"implementation_lang"`
	Meta                   map[string]string `json:"meta"`
	DockerContainerId      *string           `json:"docker_container_id"`
	Parameters             map[string]string `json:"parameters"`
	Capability             Capability        `json:"capability"`
	ImplementationSpecific *string           `json:"implementation_specific"`
}

type Capability struct {
	SupportedLanguages []string `json:"supported_languages"`
	Reproducible       bool     `json:"reproducible"`
}

func newDocumentation(conf annotatorConfig, supportedLanguages []string) Documentation {
	lang := "Go " + runtime.Version()
	doc := Documentation{
		AnnotatorName:      conf.Annotator.Name,
		Version:            conf.Annotator.Version,
		ImplementationLang: &lang,
		Meta: map[string]string{
			"model_backend": string(conf.Model.Backend),
		},
		Parameters: conf.Annotator.Parameters,
		Capability: Capability{
			SupportedLanguages: supportedLanguages,
			Reproducible:       true,
		},
	}
	if conf.Annotator.DockerContainerId != "" {
		id := conf.Annotator.DockerContainerId
		doc.DockerContainerId = &id
	}
	return doc
}

package main

import (
	"encoding/gob"
	"github.com/myrjola/agrolens/internal/chat"
	"github.com/myrjola/agrolens/internal/detect"
)

const (
	languageSessionKey  = "language"
	resultSessionKey    = "diagnosis"
	chatSessionKey      = "chatTranscript"
	imageSessionKey     = "leafImage"
	imageNameSessionKey = "leafImageName"
	imageTypeSessionKey = "leafImageType"
)

func init() {
	gob.Register(detect.Result{})
	gob.Register([]chat.Message{})
}

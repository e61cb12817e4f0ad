package dataimporter

import "github.com/planscope/planscope/pkg/dataimporter/formats"

var ErrMissingRequiredFile = formats.ErrMissingRequiredFile

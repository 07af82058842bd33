package handler

import (
	"net/http"
	"sync"

	"hostel/config"
	"hostel/di"
	"hostel/shared/logger"
)

var (
	once    sync.Once
	adaptor http.HandlerFunc
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.Configure(cfg)

		adaptor = di.InitializeService().Adaptor()
	})

	adaptor(w, r)
}

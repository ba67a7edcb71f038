package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Canned middleware responses for local development. The shapes mirror the
// aggregation service's JSON so handlers can be exercised without a real
// backend.

var currentVersions = map[string]any{
	"currentversions": []map[string]any{
		{"product": "Firefox", "version": "26.0a1", "release": "Nightly", "featured": true, "throttle": "100.00", "start_date": "2013-09-01", "end_date": "2013-12-01"},
		{"product": "Firefox", "version": "24.0", "release": "Release", "featured": true, "throttle": "10.00", "start_date": "2013-08-01", "end_date": "2013-12-01"},
		{"product": "Thunderbird", "version": "24.0", "release": "Release", "featured": true, "throttle": "100.00", "start_date": "2013-08-01", "end_date": "2013-12-01"},
	},
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/current/versions", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, currentVersions)
	})

	mux.HandleFunc("/current/products", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"hits": []map[string]any{
				{"product_name": "Firefox", "sort": 1},
				{"product_name": "Thunderbird", "sort": 2},
			},
			"total": 2,
		})
	})

	mux.HandleFunc("/products/versions", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"products": []map[string]any{
				{"product": "Firefox", "versions": []string{"26.0a1", "24.0"}},
				{"product": "Thunderbird", "versions": []string{"24.0"}},
			},
		})
	})

	mux.HandleFunc("/crashes", func(w http.ResponseWriter, _ *http.Request) {
		day := time.Now().UTC().Format("2006-01-02")
		writeJSON(w, map[string]any{
			"hits": map[string]any{
				"Firefox:26.0a1": map[string]any{
					day: map[string]any{
						"product": "Firefox", "version": "26.0a1", "date": day,
						"report_count": 1234, "adu": 400000, "crash_hadu": 3.08, "throttle": 1.0,
					},
				},
			},
		})
	})

	mux.HandleFunc("/crashes/signatures", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"crashes": []map[string]any{
				{"signature": "js::GCMarker::processMarkStackTop", "count": 993,
					"win_count": 900, "mac_count": 50, "linux_count": 43,
					"currentRank": 1, "previousRank": 6, "changeInRank": "5",
					"percentOfTotal": 4.1, "plugin_count": 0, "hang_count": 0,
					"first_report": "2013-06-03"},
			},
			"totalNumberOfCrashes": 993,
		})
	})

	mux.HandleFunc("/bugs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"hits": []map[string]any{
				{"id": 903291, "signature": "js::GCMarker::processMarkStackTop"},
			},
			"total": 1,
		})
	})

	mux.HandleFunc("/products/builds", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []map[string]any{
			{"product": "Firefox", "version": "26.0a1", "platform": "win32",
				"buildid": "20130906030203", "build_type": "Nightly", "beta_number": 0,
				"repository": "mozilla-central", "date": "2013-09-06"},
			{"product": "Firefox", "version": "26.0a1", "platform": "linux64",
				"buildid": "20130906030203", "build_type": "Nightly", "beta_number": 0,
				"repository": "mozilla-central", "date": "2013-09-06"},
		})
	})

	mux.HandleFunc("/reports/hang", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"hits": []map[string]any{
				{"browser_signature": "hang | WaitForSingleObjectEx", "plugin_signature": "hang | NPSWF32.dll",
					"browser_hangid": "30a712a4-6f24-4b6e-ae5c-5b2d02d08a18", "flash_version": "11.8.800.168",
					"url": "", "uuid": "176bcd6c-c2ec-4b1c-9d5f-380c02130906", "duplicates": []string{},
					"report_day": "2013-09-06"},
			},
			"totalCount": 1, "totalPages": 1, "currentPage": 1,
		})
	})

	mux.HandleFunc("/crash/", func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) > len("/crash/") && r.URL.Path[len(r.URL.Path)-4:] == "/raw" {
			writeJSON(w, map[string]any{
				"ProductName": "Firefox", "Version": "26.0a1",
				"InstallTime": "1378796939", "HangID": "",
			})
			return
		}
		writeJSON(w, map[string]any{
			"uuid": "11cb72f5-eb28-41e1-a8e4-849982130906", "signature": "js::GCMarker::processMarkStackTop",
			"product": "Firefox", "version": "26.0a1", "build": "20130906030203",
			"date_processed": "2013-09-06 08:50:23.496536+00:00",
			"install_age": 22385, "uptime": 1213, "last_crash": 10831,
			"process_type": "browser", "hangid": nil, "os_name": "Windows NT",
			"dump": "OS|Windows NT|6.1.7601\nCPU|x86|GenuineIntel family 6|2\nCrash|EXCEPTION_ACCESS_VIOLATION_READ|0x66a0665|0\nModule|firefox.exe|26.0a1|firefox.pdb|ABC123|0x400000|0x6fffff|1\n0|0|mozjs.dll|js::GCMarker::processMarkStackTop|hg:hg.mozilla.org/mozilla-central:js/src/jsgc.cpp:5bd5c2a01f29|4140|0x6",
		})
	})

	mux.HandleFunc("/crashes/comments", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"hits": []map[string]any{
				{"date_processed": "2013-09-05 12:00:01.000000+00:00", "uuid": "ab3cd081-8e1c-41e1-a8e4-849982130905",
					"user_comments": "crashed while scrolling", "email": nil},
			},
			"total": 1,
		})
	})

	mux.HandleFunc("/crashes/paireduuid", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"hits":  []string{"176bcd6c-c2ec-4b1c-9d5f-380c02130906"},
			"total": 1,
		})
	})

	mux.HandleFunc("/report/list", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"hits": []map[string]any{
				{"uuid": "11cb72f5-eb28-41e1-a8e4-849982130906", "signature": "js::GCMarker::processMarkStackTop",
					"product": "Firefox", "version": "26.0a1", "build": "20130906030203",
					"os_name": "Windows NT", "os_version": "6.1.7601",
					"date_processed": "2013-09-06 08:50:23.496536+00:00",
					"install_time": "2013-09-06 05:08:59+00:00",
					"user_comments": nil, "duplicate_of": nil, "process_type": "browser", "hangid": nil},
			},
			"total": 1,
		})
	})

	mux.HandleFunc("/server_status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"hits": []map[string]any{
				{"id": 2, "date_recently_completed": "2013-09-06T08:40:00+00:00", "date_oldest_job_queued": nil,
					"avg_process_sec": 1.2, "avg_wait_sec": 2.4, "waiting_job_count": 14, "processors_count": 4,
					"date_created": "2013-09-06T08:45:00+00:00"},
				{"id": 1, "date_recently_completed": "2013-09-06T08:35:00+00:00", "date_oldest_job_queued": nil,
					"avg_process_sec": 1.4, "avg_wait_sec": 2.6, "waiting_job_count": 10, "processors_count": 4,
					"date_created": "2013-09-06T08:40:00+00:00"},
			},
			"total":              2,
			"service_revision":   "4bd5c2a01f29",
			"collector_revision": "9f7001d12a5f",
		})
	})

	mux.HandleFunc("/search/signatures", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"hits": []map[string]any{
				{"uuid": "11cb72f5-eb28-41e1-a8e4-849982130906",
					"signature": "js::GCMarker::processMarkStackTop",
					"product":   "Firefox", "version": "26.0a1", "build": "20130906030203",
					"os_name": "Windows NT", "os_version": "6.1.7601",
					"date_processed": "2013-09-06 08:50:23.496536+00:00",
					"install_time":   "2013-09-06 05:08:59+00:00",
					"process_type":   "browser"},
			},
			"total": 1,
		})
	})

	mux.HandleFunc("/topcrash/sig/trend/history", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"signatureHistory": []map[string]any{
				{"date": "2013-09-01T00:00:00+00:00", "count": 14, "percentOfTotal": 0.034},
				{"date": "2013-09-02T00:00:00+00:00", "count": 18, "percentOfTotal": 0.041},
			},
			"signature": "js::GCMarker::processMarkStackTop", "start_date": "2013-09-01", "end_date": "2013-09-08",
		})
	})

	mux.HandleFunc("/signaturesummary", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []map[string]any{
			{"category": "Windows NT", "percentage": "0.912", "report_count": 906},
			{"category": "Mac OS X", "percentage": "0.051", "report_count": 50},
		})
	})

	mux.HandleFunc("/bugzilla/bug", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"bugs": []map[string]any{
				{"id": 903291, "status": "NEW", "resolution": "", "summary": "Crash in js::GCMarker::processMarkStackTop"},
			},
		})
	})

	logger := log.New(log.Writer(), "middleware-mock ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:    ":8080",
		Handler: logRequests(logger, mux),
	}

	logger.Println("listening on :8080")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Package api provides HTTP access to the converters: spreadsheet-to-IIF
// remapping and bank-statement-to-OFX normalization. This is a capability
// module that can be enabled via the CLI or used programmatically.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/amirasyraf/finconv/bank"
	"github.com/amirasyraf/finconv/decoder"
	"github.com/amirasyraf/finconv/pack"
	"github.com/amirasyraf/finconv/remap"
)

// Capabilities carries the caller's permissions into mutating operations.
// There is no ambient role state; every operation receives this explicitly.
type Capabilities struct {
	IsAdmin bool
}

// Config holds the API server configuration
type Config struct {
	Port       string
	LogPrefix  string
	AdminToken string // requests presenting this token get admin capabilities

	// Mapping tables served to and used by the converters. Mutated only
	// through the admin-gated /mappings endpoint.
	Mappings map[string]map[string]string
}

// DefaultConfig returns the default API configuration
func DefaultConfig() Config {
	return Config{
		Port:      ":8080",
		LogPrefix: "API: ",
		Mappings:  map[string]map[string]string{},
	}
}

// Server represents the HTTP API server
type Server struct {
	config Config
	mux    *http.ServeMux

	mu       sync.RWMutex
	mappings map[string]map[string]string
}

// New creates a new API server with the given configuration
func New(cfg Config) *Server {
	mappings := cfg.Mappings
	if mappings == nil {
		mappings = map[string]map[string]string{}
	}
	s := &Server{
		config:   cfg,
		mux:      http.NewServeMux(),
		mappings: mappings,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/convert", s.handleConvert)
	s.mux.HandleFunc("/bank", s.handleBank)
	s.mux.HandleFunc("/mappings", s.handleMappings)
}

// Handler returns the http.Handler for the server
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server (blocking)
func (s *Server) Start() error {
	log.Printf("%sStarting server on %s", s.config.LogPrefix, s.config.Port)
	return http.ListenAndServe(s.config.Port, s.mux)
}

// capabilities derives the caller's capabilities from the request.
func (s *Server) capabilities(r *http.Request) Capabilities {
	token := r.Header.Get("Authorization")
	return Capabilities{
		IsAdmin: s.config.AdminToken != "" && token == "Bearer "+s.config.AdminToken,
	}
}

func (s *Server) mapping(kind string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.mappings[kind]))
	for k, v := range s.mappings[kind] {
		out[k] = v
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// convertOptions is the JSON configuration uploaded alongside the source
// spreadsheet on /convert.
type convertOptions struct {
	KeyMapping   map[string][]string `json:"key_mapping"`
	ValueMapping map[string][]string `json:"value_mapping"`
	Positions    map[string]int      `json:"positions"`
	NonZero      []string            `json:"non_zero"`
	SplitColumn  string              `json:"split_column"`
	COAColumn    string              `json:"coa_column"`
	BankColumn   string              `json:"bank_column"`
	MemoColumn   string              `json:"memo_column"`
	MemoPolicy   string              `json:"memo_policy"`
	Calculated   []struct {
		Name    string `json:"name"`
		Replace string `json:"replace"`
		Formula string `json:"formula"`
		Kind    string `json:"kind"`
	} `json:"calculated"`
}

// handleConvert runs the Core A pipeline: decode the uploaded spreadsheet,
// apply calculated columns, resolve/expand against the template schema, and
// return the per-store IIF files as a zip.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	log.Printf("%sReceived convert request from %s", s.config.LogPrefix, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Could not parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	source, err := formFileBytes(r, "file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	templateText, err := formFileBytes(r, "template")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var opts convertOptions
	if raw := r.FormValue("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			http.Error(w, "Invalid options JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	decoded, err := decoder.Decode(source.data, source.name)
	if err != nil {
		http.Error(w, "Could not decode source file: "+err.Error(), http.StatusBadRequest)
		return
	}
	schema, err := remap.ParseTemplate(decoder.DecodeText(templateText.data))
	if err != nil {
		http.Error(w, "Could not parse template: "+err.Error(), http.StatusBadRequest)
		return
	}

	table := remap.FromStrings(decoded.Columns, decoded.Rows)
	for _, calc := range opts.Calculated {
		kind := remap.KindFormula
		if calc.Kind == "answer" {
			kind = remap.KindAnswer
		}
		spec := remap.CalcSpec{Name: calc.Name, Replace: calc.Replace, Formula: calc.Formula, Kind: kind}
		if err := table.AddCalculated(spec); err != nil {
			http.Error(w, fmt.Sprintf("Calculated column %q: %v", calc.Name, err), http.StatusBadRequest)
			return
		}
	}
	table.FillDates("DATE")
	table.NormalizeDates("DATE")

	nonZero := make(map[string]bool, len(opts.NonZero))
	for _, col := range opts.NonZero {
		nonZero[col] = true
	}
	resolver := &remap.Resolver{
		Table:     table,
		Targets:   schema.Columns,
		Keys:      opts.KeyMapping,
		Values:    opts.ValueMapping,
		Positions: opts.Positions,
		NonZero:   nonZero,
	}

	if n := previewRows(r.FormValue("preview")); n > 0 {
		records := resolver.Preview(n)
		rows := make([]map[string]string, len(records))
		for i, rec := range records {
			row := make(map[string]string, len(rec))
			for col, cell := range rec {
				row[col] = cell.String()
			}
			rows[i] = row
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"columns": schema.Columns,
			"rows":    rows,
		})
		return
	}

	exported, err := resolver.Export(schema, remap.ExportOptions{
		SplitColumn: opts.SplitColumn,
		COAColumn:   opts.COAColumn,
		COAMap:      s.mapping("coa"),
		BankColumn:  opts.BankColumn,
		BankMap:     s.mapping("bank_names"),
		MemoColumn:  opts.MemoColumn,
		MemoMap:     s.mapping("memo"),
		MemoPolicy:  memoPolicy(opts.MemoPolicy),
	})
	if err != nil {
		http.Error(w, "Export failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	files := make([]pack.File, len(exported))
	for i, f := range exported {
		files[i] = pack.File{Name: f.Name, Content: f.Content}
	}
	s.respondFiles(w, files)
}

// handleBank runs the Core B pipeline: normalize every uploaded statement
// and return one OFX file per account.
func (s *Server) handleBank(w http.ResponseWriter, r *http.Request) {
	log.Printf("%sReceived bank request from %s", s.config.LogPrefix, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Could not parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format, ok := bank.Lookup(r.FormValue("format"))
	if !ok {
		http.Error(w, "Unknown bank format: "+r.FormValue("format"), http.StatusBadRequest)
		return
	}

	form := r.MultipartForm
	uploads := form.File["file"]
	if len(uploads) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	normalizer := bank.NewNormalizer()
	for _, header := range uploads {
		f, err := header.Open()
		if err != nil {
			http.Error(w, "Could not open upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "Could not read upload: "+err.Error(), http.StatusInternalServerError)
			return
		}

		decoded, err := decoder.Decode(data, header.Filename)
		if err != nil {
			http.Error(w, "Could not decode "+header.Filename+": "+err.Error(), http.StatusBadRequest)
			return
		}
		normalizer.AddFile(format, decoded.RawRows(), header.Filename)
	}

	companies := s.mapping("companies")
	var files []pack.File
	groups := normalizer.Groups()
	for _, account := range normalizer.Accounts() {
		files = append(files, pack.File{
			Name:    bank.FileName(account, companies),
			Content: bank.RenderOFX(account, groups[account]),
		})
	}

	s.respondFiles(w, files)
}

// handleMappings serves the mapping tables; updates require admin
// capabilities.
func (s *Server) handleMappings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.RLock()
		defer s.mu.RUnlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.mappings)

	case http.MethodPost:
		caps := s.capabilities(r)
		if !caps.IsAdmin {
			http.Error(w, "Admin capability required", http.StatusForbidden)
			return
		}

		var update struct {
			Kind  string `json:"kind"`
			Key   string `json:"key"`
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if update.Kind == "" || update.Key == "" {
			http.Error(w, "kind and key are required", http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		if s.mappings[update.Kind] == nil {
			s.mappings[update.Kind] = map[string]string{}
		}
		s.mappings[update.Kind][update.Key] = update.Value
		s.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// respondFiles writes a single file inline, or zips multiple files.
func (s *Server) respondFiles(w http.ResponseWriter, files []pack.File) {
	switch len(files) {
	case 0:
		http.Error(w, "No output generated", http.StatusUnprocessableEntity)
	case 1:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+files[0].Name+`"`)
		io.WriteString(w, files[0].Content)
	default:
		blob, err := pack.Zip(files)
		if err != nil {
			http.Error(w, "Could not package output: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="output.zip"`)
		w.Write(blob)
	}
}

type upload struct {
	name string
	data []byte
}

func formFileBytes(r *http.Request, field string) (upload, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		return upload{}, fmt.Errorf("could not get uploaded %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return upload{}, fmt.Errorf("could not read uploaded %s: %w", field, err)
	}
	return upload{name: header.Filename, data: data}, nil
}

// previewRows parses the preview form value; 0 means no preview requested.
func previewRows(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return defaultPreviewRows
	}
	return n
}

const defaultPreviewRows = 50

func memoPolicy(s string) remap.MemoPolicy {
	switch s {
	case "values":
		return remap.MemoValues
	case "both":
		return remap.MemoBoth
	default:
		return remap.MemoKeys
	}
}

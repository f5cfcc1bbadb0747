// Package monitoring turns a running simulation into a small web server that
// shows the nets and lets a user drive the circuit.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/idgen"
	"github.com/sarchlab/logicsim/monitoring/web"
	"github.com/sarchlab/logicsim/signal"
	"github.com/sarchlab/logicsim/stats"
	"github.com/sarchlab/logicsim/tracing"
)

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	sim        *circuit.Simulator
	file       *circuit.Library
	activity   *tracing.ActivityTracer
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterSimulator registers the simulation to monitor.
func (m *Monitor) RegisterSimulator(s *circuit.Simulator) {
	m.sim = s
}

// RegisterFile registers the file the simulated circuit comes from. It
// enables the statistics endpoint.
func (m *Monitor) RegisterFile(file *circuit.Library) {
	m.file = file
}

// RegisterActivityTracer attaches an activity tracer to the registered
// simulator and exposes its counts. It panics if no simulator is registered
// yet.
func (m *Monitor) RegisterActivityTracer(t *tracing.ActivityTracer) {
	if m.sim == nil {
		panic("monitor: register a simulator before its activity tracer")
	}

	m.activity = t
	tracing.CollectTrace(m.sim, t)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		id:        idgen.Get().Generate(),
		name:      name,
		startTime: time.Now(),
		total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the request router of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/settle", m.settle)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name:.+}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/nets", m.listNets)
	r.HandleFunc("/api/drive/{name:.+}", m.drive)
	r.HandleFunc("/api/stats", m.listStats)
	r.HandleFunc("/api/activity", m.listActivity)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its address.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	r := m.Router()
	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()

	return url
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.sim.Engine().Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.sim.Engine().Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%d}", m.sim.Now())
}

type settleRsp struct {
	Now   uint64 `json:"now"`
	Error string `json:"error,omitempty"`
}

// settle blocks until the simulation settles, so it must not be called
// while the engine is paused.
func (m *Monitor) settle(w http.ResponseWriter, _ *http.Request) {
	rsp := settleRsp{}

	err := m.sim.Settle()
	if err != nil {
		log.Printf("monitor: %v", err)
		rsp.Error = err.Error()
	}

	rsp.Now = uint64(m.sim.Now())

	writeJSON(w, rsp)
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.sim.InstancePaths())
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) circuit.Component {
	component, err := m.sim.Component(name)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Component not found"))
		dieOnErr(err)

		return nil
	}

	return component
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(2)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type netRsp struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
	Value string `json:"value"`
}

func (m *Monitor) listNets(w http.ResponseWriter, _ *http.Request) {
	nets := m.sim.Nets()

	rsp := make([]netRsp, len(nets))
	for i, n := range nets {
		rsp[i] = netRsp{Name: n.Name, Width: n.Width, Value: n.Value.String()}
	}

	writeJSON(w, rsp)
}

func (m *Monitor) drive(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	v, err := signal.Parse(r.URL.Query().Get("value"))
	if err == nil {
		err = m.sim.Drive(name, v)
	}

	if errors.Is(err, circuit.ErrUnknownInstance) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	_, err = w.Write(nil)
	dieOnErr(err)
}

type countRsp struct {
	Library   string `json:"library"`
	Factory   string `json:"factory"`
	Direct    int    `json:"direct"`
	Flat      int    `json:"flat"`
	Recursive int    `json:"recursive"`
}

func (m *Monitor) listStats(w http.ResponseWriter, _ *http.Request) {
	if m.file == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("No file registered"))
		dieOnErr(err)

		return
	}

	counts := stats.Compute(m.file, m.sim.Circuit()).Counts()

	rsp := make([]countRsp, len(counts))
	for i, c := range counts {
		rsp[i] = countRsp{
			Library:   c.Library.Name,
			Factory:   c.Factory.Name(),
			Direct:    c.DirectCount,
			Flat:      c.FlatCount,
			Recursive: c.RecursiveCount,
		}
	}

	writeJSON(w, rsp)
}

type activityRsp struct {
	Net     string `json:"net"`
	Changes uint64 `json:"changes"`
}

func (m *Monitor) listActivity(w http.ResponseWriter, r *http.Request) {
	if m.activity == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("No activity tracer registered"))
		dieOnErr(err)

		return
	}

	limit := -1
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Error: %s", err)

			return
		}

		limit = n
	}

	busiest := m.activity.Busiest(limit)

	rsp := make([]activityRsp, len(busiest))
	for i, a := range busiest {
		rsp[i] = activityRsp{Net: a.Net, Changes: a.Changes}
	}

	writeJSON(w, rsp)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	rsp := make([]progressRsp, len(m.progressBars))
	for i, b := range m.progressBars {
		rsp[i] = b.snapshot()
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, rsp)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}

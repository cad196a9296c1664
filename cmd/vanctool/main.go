/*
DESCRIPTION
  vanctool extracts ancillary data from SMPTE 2038 MPEG-TS and wraps raw
  lines of 10-bit ancillary data as SMPTE 2038 MPEG-TS.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// vanctool is a command line tool for SMPTE 2038 ancillary data streams.
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/vanc/codec/vanc"
	"github.com/ausocean/vanc/codec/vanc/cdp"
	"github.com/ausocean/vanc/codec/vanc/scte104"
	"github.com/ausocean/vanc/config"
	"github.com/ausocean/vanc/container/mts"
	"github.com/ausocean/vanc/container/mts/pes"
	"github.com/ausocean/vanc/container/smpte2038"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = false
)

// stdio is the path selecting standard input or output.
const stdio = "-"

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version")
		configPath  = flag.String("config", "", "path of YAML config file")
	)
	// Flags setting config variables override the config file.
	cfgFlags := []struct{ name, key, usage string }{
		{"mode", config.KeyMode, "extract or wrap"},
		{"in", config.KeyInputPath, "input file, - for stdin"},
		{"out", config.KeyOutputPath, "output file, - for stdout"},
		{"pid", config.KeyPID, "ancillary data PID, 0 to detect when extracting"},
		{"width", config.KeyLineWidth, "words per raw line"},
		{"line", config.KeyLineNumber, "line number of raw lines"},
		{"rate", config.KeyFrameRate, "raw line rate in Hz"},
		{"psi", config.KeyPSISendCount, "packets between PSI"},
		{"verbosity", config.KeyLogging, "Debug, Info, Warning, Error or Fatal"},
		{"log", config.KeyLogPath, "log file path"},
	}
	keys := make(map[string]string)
	for _, f := range cfgFlags {
		flag.String(f.name, "", f.usage)
		keys[f.name] = f.key
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	vars := make(map[string]string)
	if *configPath != "" {
		var err error
		vars, err = config.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		if k, ok := keys[f.Name]; ok {
			vars[k] = f.Value.String()
		}
	})

	logPath := vars[config.KeyLogPath]
	if logPath == "" {
		logPath = config.DefaultLogPath
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	defer fileLog.Close()

	log := logging.New(logVerbosity, io.MultiWriter(os.Stderr, fileLog), logSuppress)
	log.Info("starting vanctool", "version", version)

	cfg := config.Config{Logger: log}
	cfg.Update(vars)
	cfg.Validate()
	log.SetLevel(cfg.LogLevel)

	var err error
	switch cfg.Mode {
	case config.ModeExtract:
		err = extract(cfg, log)
	case config.ModeWrap:
		err = wrap(cfg, log)
	}
	if err != nil {
		log.Fatal("vanctool failed", "error", err.Error())
	}
	log.Info("finished")
}

// extract reads MPEG-TS from the configured input and writes a description of
// each ancillary packet found to the configured output.
func extract(cfg config.Config, log logging.Logger) error {
	in, err := openInput(cfg.InputPath)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	mime, _ := pes.SIDToMIMEType(smpte2038.StreamID)
	log.Info("extracting", "input", cfg.InputPath, "PID", cfg.PID, "type", mime)

	p := newPrinter(out, log)
	d := smpte2038.NewDemuxer(log, uint16(cfg.PID), p.container)
	_, err = io.Copy(d, in)
	if err != nil {
		return fmt.Errorf("could not read input: %w", err)
	}
	log.Info("extraction complete", "containers", p.containers, "packets", p.packets)
	return nil
}

// wrap reads raw lines of little-endian 10-bit words from the configured
// input, finds the ancillary packets in each and writes them as SMPTE 2038
// MPEG-TS to the configured output, one container per line.
func wrap(cfg config.Config, log logging.Logger) error {
	in, err := openInput(cfg.InputPath)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}

	psi := mts.PacketBasedPSI(int(cfg.PSISendCount))
	if cfg.PSITime != 0 {
		psi = mts.TimeBasedPSI(time.Duration(cfg.PSITime) * time.Second)
	}
	w, err := smpte2038.NewWriter(out, log, mts.StreamPID(uint16(cfg.PID)), psi)
	if err != nil {
		out.Close()
		return fmt.Errorf("could not create writer: %w", err)
	}
	defer w.Close()

	words := make([]uint16, cfg.LineWidth)
	for n := 0; ; n++ {
		err = binary.Read(in, binary.LittleEndian, words)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			log.Info("wrap complete", "lines", n)
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read line %d: %w", n, err)
		}

		hdrs, err := vanc.Scan(words, int(cfg.LineNumber))
		if err != nil {
			return fmt.Errorf("could not scan line %d: %w", n, err)
		}
		for _, h := range hdrs {
			if !h.ChecksumOK {
				log.Warning("checksum mismatch", "line", n, "DID", h.DID, "SDID", h.SDID)
			}
		}

		pts := uint64(float64(n) * mts.PTSFrequency / cfg.FrameRate)
		err = w.WriteHeaders(hdrs, pts)
		if err != nil {
			return fmt.Errorf("could not write line %d: %w", n, err)
		}
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func openInput(path string) (io.ReadCloser, error) {
	if path == stdio {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open input: %w", err)
	}
	return f, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == stdio {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create output: %w", err)
	}
	return f, nil
}

// printer describes decoded ancillary packets.
type printer struct {
	w          io.Writer
	log        logging.Logger
	captions   cdp.TextDecoder
	containers int
	packets    int
}

func newPrinter(w io.Writer, log logging.Logger) *printer {
	return &printer{w: w, log: log}
}

func (p *printer) container(c *smpte2038.Container) {
	p.containers++
	for _, h := range c.Headers() {
		p.packets++
		if !h.ChecksumOK {
			p.log.Warning("checksum mismatch", "PTS", c.PTS, "line", h.Line, "DID", h.DID, "SDID", h.SDID)
		}
		pkt, err := vanc.Decode(h)
		if err != nil {
			p.log.Warning("could not decode packet", "error", err, "type", h.Type)
			continue
		}
		fmt.Fprintf(p.w, "pts=%d line=%d offset=%d type=%s %s\n", c.PTS, h.Line, h.Offset, h.Type, describe(pkt))
		p.caption(pkt)
	}
}

// caption passes caption data to the text decoder, logging completed
// captions.
func (p *printer) caption(pkt vanc.Packet) {
	var pairs []uint16
	switch pkt := pkt.(type) {
	case *vanc.CEA708:
		pairs = cdp.Field1(pkt.CDP)
	case *vanc.EIA608:
		if pkt.Field == 1 {
			pairs = []uint16{pkt.CCData()}
		}
	default:
		return
	}
	text, ok, err := p.captions.Decode(pairs)
	if err != nil {
		p.log.Warning("could not decode caption", "error", err)
		return
	}
	if ok {
		p.log.Info("caption", "text", text)
		fmt.Fprintf(p.w, "caption %q\n", text)
	}
}

func describe(pkt vanc.Packet) string {
	switch pkt := pkt.(type) {
	case *vanc.Timecode:
		return pkt.String()
	case *vanc.AFD:
		return fmt.Sprintf("afd=%#x aspect=%d", pkt.Code, pkt.AspectRatio)
	case *vanc.Counter:
		return fmt.Sprintf("count=%d", pkt.Value)
	case *vanc.SCTE104:
		return describeSCTE104(pkt.Message)
	case *vanc.CEA708:
		return fmt.Sprintf("cdp sequence=%d cc=%d", pkt.CDP.Sequence, len(pkt.CDP.CCData))
	case *vanc.EIA608:
		return fmt.Sprintf("field=%d cc=%#04x", pkt.Field, pkt.CCData())
	case *vanc.HDR:
		return fmt.Sprintf("hdr items=%d", len(pkt.Items))
	case *vanc.SDP:
		return fmt.Sprintf("sdp packets=%d", len(pkt.Packets))
	default:
		return fmt.Sprintf("did=%#02x sdid=%#02x words=%d", pkt.AncHeader().DID, pkt.AncHeader().SDID, pkt.AncHeader().DataCount())
	}
}

// describeSCTE104 lists the operations of m with their fields.
func describeSCTE104(m scte104.Message) string {
	switch m := m.(type) {
	case *scte104.SingleOperationMessage:
		return fmt.Sprintf("som op=%#04x result=%d data=%d", m.OpID, m.Result, len(m.Data))
	case *scte104.MultipleOperationMessage:
		var b strings.Builder
		fmt.Fprintf(&b, "mom message=%d ops=%d", m.MessageNumber, len(m.Operations))
		for _, op := range m.Operations {
			fmt.Fprintf(&b, " op=%#04x %+v", op.OpID(), reflect.Indirect(reflect.ValueOf(op)).Interface())
		}
		return b.String()
	default:
		return fmt.Sprintf("%T", m)
	}
}

// Ingress listeners: one thread per priority lane, fanning every received
// message out to every manager
package supervisor

import (
	"bufio"
	"encoding/json"
	"os"
	"rtadp/internal/global"
	"rtadp/internal/transport"
)

// Starts the two ingress listener threads for the configured dataflow type
func (sup *Supervisor) startIngress() {
	for _, lane := range []struct {
		sock     *transport.Socket
		priority int
	}{
		{sup.sockLpData, global.PriorityLow},
		{sup.sockHpData, global.PriorityHigh},
	} {
		sock, priority := lane.sock, lane.priority
		sup.wg.Add(1)
		go func() {
			defer sup.wg.Done()
			sup.runIngress(sock, priority)
		}()
	}
}

// Listener loop. While stopdata is set the loop idles instead of receiving;
// a receive error during shutdown ends the loop.
func (sup *Supervisor) runIngress(sock *transport.Socket, priority int) {
	for sup.continueall.Load() {
		if sup.stopdata.Load() {
			sup.idle(global.IngressPauseInterval)
			continue
		}

		payload, err := sock.Recv()
		if err != nil {
			if !sup.continueall.Load() {
				break
			}
			sup.log.Error().Err(err).Int("priority", priority).Msg("ingress receive failed")
			sup.idle(global.IngressPauseInterval)
			continue
		}

		sup.ingest(payload, priority)
	}
	sup.log.Info().Int("priority", priority).Msg("end ingress listener")
}

// Converts one wire payload into queue items per the dataflow type and fans
// them out. Binary payloads stay raw byte buffers; the worker's codec decodes
// them and drops the undecodable ones.
func (sup *Supervisor) ingest(payload []byte, priority int) {
	switch sup.cfg.DataflowType {
	case global.DataflowBinary:
		sup.fanoutItem(payload, priority)
	case global.DataflowString:
		sup.fanoutItem(string(payload), priority)
	case global.DataflowFilename:
		sup.ingestFile(string(payload), priority)
	}
}

// Reads the named file and fans out one record per non-empty line. An
// unreadable file or unparseable line is logged and skipped.
func (sup *Supervisor) ingestFile(filename string, priority int) {
	file, err := os.Open(filename)
	if err != nil {
		sup.log.Error().Err(err).Str("filename", filename).Msg("unable to open file")
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record map[string]any
		err = json.Unmarshal(line, &record)
		if err != nil {
			sup.log.Error().Err(err).Str("filename", filename).Int("line", lineno).
				Msg("unparseable record line skipped")
			continue
		}
		sup.fanoutItem(record, priority)
	}

	err = scanner.Err()
	if err != nil {
		sup.log.Error().Err(err).Str("filename", filename).Msg("error while reading file")
	}
}

// Replicates one item to the matching input lane of every manager
func (sup *Supervisor) fanoutItem(item any, priority int) {
	for _, mgr := range sup.managers {
		if priority == global.PriorityHigh {
			mgr.HighPriorityQueue().Push(item)
		} else {
			mgr.LowPriorityQueue().Push(item)
		}
	}
}

// Package recovery implements index-bypass recovery: a sequential,
// self-resynchronizing scan of an archive's raw blocks that can recover
// file content even when the superblock or Index block is damaged.
package recovery

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/byte271/sixcy/block"
	"github.com/byte271/sixcy/codec"
	"github.com/byte271/sixcy/index"
	"github.com/byte271/sixcy/superblock"
	"github.com/byte271/sixcy/writer"
)

// HealthKind classifies why a scanned block is or isn't usable.
type HealthKind int

const (
	// HealthHealthy means the header parsed, its CRC32 matched, its codec
	// is available, and its payload was not truncated.
	HealthHealthy HealthKind = iota
	// HealthHeaderCorrupt means the header's magic or CRC32 did not
	// validate; the scanner resynchronizes one byte forward from here.
	HealthHeaderCorrupt
	// HealthTruncatedPayload means the header parsed but fewer bytes
	// remain in the stream than comp_size declares.
	HealthTruncatedPayload
	// HealthUnknownCodec means the header parsed but no codec is
	// registered for its codec_uuid.
	HealthUnknownCodec
)

func (k HealthKind) String() string {
	switch k {
	case HealthHealthy:
		return "healthy"
	case HealthHeaderCorrupt:
		return "header_corrupt"
	case HealthTruncatedPayload:
		return "truncated_payload"
	case HealthUnknownCodec:
		return "unknown_codec"
	default:
		return "unknown"
	}
}

// BlockHealth records a scanned block's classification and any detail
// relevant to it.
type BlockHealth struct {
	Kind      HealthKind
	Declared  uint32
	Available uint64
	CodecUUID [16]byte
}

// IsUsable reports whether this block's payload can be decoded.
func (h BlockHealth) IsUsable() bool { return h.Kind == HealthHealthy }

// ScannedBlock is one header found during a scan, healthy or not.
type ScannedBlock struct {
	ArchiveOffset uint64
	Header        *block.Header
	Health        BlockHealth
}

// Quality summarizes how complete a recovery scan's result is.
type Quality int

const (
	QualityFull Quality = iota
	QualityPartial
	QualityHeaderOnly
	QualityCatastrophic
)

func (q Quality) String() string {
	switch q {
	case QualityFull:
		return "full"
	case QualityPartial:
		return "partial"
	case QualityHeaderOnly:
		return "header_only"
	case QualityCatastrophic:
		return "catastrophic"
	default:
		return "unknown"
	}
}

// ProgressFn is called periodically during a scan with bytes scanned so
// far and the total expected, if known (0 if unknown).
type ProgressFn func(scanned, total int64)

// Report is the full result of a recovery scan.
type Report struct {
	TotalScanned      int
	HealthyBlocks     int
	CorruptBlocks     int
	TruncatedBlocks   int
	UnknownCodecBlocks int
	BytesScanned      uint64
	BlockLog          []ScannedBlock
	Index             index.FileIndex
	RecoverableBytes  uint64
	Quality           Quality
}

// HealthPct returns the fraction of scanned blocks that were healthy, in
// [0.0, 1.0]. Returns 0 if nothing was scanned.
func (r Report) HealthPct() float64 {
	if r.TotalScanned == 0 {
		return 0
	}
	return float64(r.HealthyBlocks) / float64(r.TotalScanned)
}

// Summary renders a short, human-readable description of the scan.
func (r Report) Summary() string {
	return fmt.Sprintf(
		"scanned %d blocks (%d healthy, %d corrupt, %d truncated, %d unknown codec), %d bytes, quality=%s, recoverable=%d bytes in %d files",
		r.TotalScanned, r.HealthyBlocks, r.CorruptBlocks, r.TruncatedBlocks, r.UnknownCodecBlocks,
		r.BytesScanned, r.Quality, r.RecoverableBytes, len(r.Index.Records),
	)
}

// Scan walks r sequentially from the end of the superblock, classifying
// every block header it finds. On a corrupt header it resynchronizes by
// advancing exactly one byte and trying again, so a single flipped bit
// never loses the rest of the archive. Scanning stops at the first Index
// block, at EOF, or at the first truncated payload, whichever comes
// first.
func Scan(r io.ReadSeeker, fileSizeHint int64, progress ProgressFn, reg *codec.Registry, logger *logrus.Logger) (Report, error) {
	if _, err := r.Seek(superblock.Size, io.SeekStart); err != nil {
		return Report{}, fmt.Errorf("recovery: seeking past superblock: %w", err)
	}

	var report Report
	pos := int64(superblock.Size)

	for {
		if progress != nil {
			progress(pos, fileSizeHint)
		}

		hdrBytes := make([]byte, block.HeaderSize)
		n, err := io.ReadFull(r, hdrBytes)
		if err == io.EOF || (err == io.ErrUnexpectedEOF && n == 0) {
			break
		}
		if err == io.ErrUnexpectedEOF {
			report.BlockLog = append(report.BlockLog, ScannedBlock{
				ArchiveOffset: uint64(pos),
				Health:        BlockHealth{Kind: HealthTruncatedPayload, Declared: uint32(block.HeaderSize), Available: uint64(n)},
			})
			report.TruncatedBlocks++
			report.TotalScanned++
			break
		}
		if err != nil {
			return Report{}, fmt.Errorf("recovery: reading header at offset %d: %w", pos, err)
		}

		h, perr := block.ParseHeader(hdrBytes)
		if perr != nil {
			if logger != nil {
				logger.WithField("offset", pos).Debug("header corrupt, resynchronizing one byte forward")
			}
			report.BlockLog = append(report.BlockLog, ScannedBlock{
				ArchiveOffset: uint64(pos),
				Health:        BlockHealth{Kind: HealthHeaderCorrupt},
			})
			report.CorruptBlocks++
			report.TotalScanned++

			pos++
			if _, err := r.Seek(pos, io.SeekStart); err != nil {
				return Report{}, fmt.Errorf("recovery: resyncing seek: %w", err)
			}
			continue
		}

		header := h
		blockOffset := uint64(pos)

		if h.HeaderSize > block.HeaderSize {
			if _, err := io.CopyN(io.Discard, r, int64(h.HeaderSize-block.HeaderSize)); err != nil {
				return Report{}, fmt.Errorf("recovery: skipping header tail at offset %d: %w", pos, err)
			}
		}
		pos += int64(h.HeaderSize)

		if !reg.Available(h.CodecUUID) {
			if logger != nil {
				logger.WithField("codec_uuid", hex.EncodeToString(h.CodecUUID[:])).Warn("unknown codec, skipping block payload")
			}
			report.BlockLog = append(report.BlockLog, ScannedBlock{
				ArchiveOffset: blockOffset,
				Header:        &header,
				Health:        BlockHealth{Kind: HealthUnknownCodec, CodecUUID: h.CodecUUID},
			})
			report.UnknownCodecBlocks++
			report.TotalScanned++

			pos += int64(h.CompSize)
			if _, err := r.Seek(pos, io.SeekStart); err != nil {
				return Report{}, fmt.Errorf("recovery: seeking past unknown-codec payload: %w", err)
			}
			continue
		}

		payload := make([]byte, h.CompSize)
		got, err := io.ReadFull(r, payload)
		if err != nil {
			if logger != nil {
				logger.WithField("offset", blockOffset).Warn("truncated payload, stopping scan")
			}
			report.BlockLog = append(report.BlockLog, ScannedBlock{
				ArchiveOffset: blockOffset,
				Header:        &header,
				Health:        BlockHealth{Kind: HealthTruncatedPayload, Declared: h.CompSize, Available: uint64(got)},
			})
			report.TruncatedBlocks++
			report.TotalScanned++
			break
		}
		pos += int64(len(payload))

		report.BlockLog = append(report.BlockLog, ScannedBlock{
			ArchiveOffset: blockOffset,
			Header:        &header,
			Health:        BlockHealth{Kind: HealthHealthy},
		})
		report.HealthyBlocks++
		report.TotalScanned++

		if h.BlockType == block.TypeIndex {
			break
		}
	}

	report.BytesScanned = uint64(pos) - superblock.Size
	report.Index = buildIndexFromLog(report.BlockLog)

	for _, rec := range report.Index.Records {
		report.RecoverableBytes += rec.OriginalSize
	}

	report.Quality = classifyQuality(report)

	return report, nil
}

// ScanFile opens path and scans it, using its size as the progress hint.
func ScanFile(path string, progress ProgressFn, reg *codec.Registry, logger *logrus.Logger) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("recovery: opening %s: %w", path, err)
	}
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return Report{}, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Report{}, err
	}

	return Scan(f, size, progress, reg, logger)
}

func classifyQuality(r Report) Quality {
	if len(r.Index.Records) == 0 {
		return QualityHeaderOnly
	}

	pct := r.HealthPct()
	switch {
	case pct >= 0.95:
		return QualityFull
	case pct >= 0.50:
		return QualityPartial
	default:
		return QualityCatastrophic
	}
}

// buildIndexFromLog reconstructs a best-effort FileIndex purely from
// healthy Data blocks found during the scan. Solid blocks are excluded:
// without the (possibly damaged) real Index, there is no way to know
// which byte ranges inside a solid block belonged to which file.
func buildIndexFromLog(log []ScannedBlock) index.FileIndex {
	byFile := make(map[uint32][]ScannedBlock)

	for _, sb := range log {
		if !sb.Health.IsUsable() || sb.Header == nil {
			continue
		}
		if sb.Header.BlockType != block.TypeData {
			continue
		}
		byFile[sb.Header.FileID] = append(byFile[sb.Header.FileID], sb)
	}

	ids := make([]uint32, 0, len(byFile))
	for id := range byFile {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var fi index.FileIndex
	for _, id := range ids {
		blocks := byFile[id]
		sort.Slice(blocks, func(i, j int) bool { return blocks[i].Header.FileOffset < blocks[j].Header.FileOffset })

		rec := index.FileRecord{ID: id, Name: fmt.Sprintf("recovered_file_%08x", id)}
		for _, b := range blocks {
			rec.BlockRefs = append(rec.BlockRefs, index.BlockRef{
				ContentHash:   b.Header.ContentHash,
				ArchiveOffset: b.ArchiveOffset,
				IntraLength:   b.Header.OrigSize,
			})
			rec.OriginalSize += uint64(b.Header.OrigSize)
			rec.CompressedSize += uint64(b.Header.CompSize)
		}
		fi.Records = append(fi.Records, rec)
	}

	return fi
}

// ExtractRecoverable re-scans src and writes every recoverable file into
// a brand new archive at dst, skipping any file with a chunk that fails
// to decode despite a healthy header (a rare case — bit rot inside an
// otherwise intact payload — and not worth aborting the whole extraction
// over).
func ExtractRecoverable(src io.ReadSeeker, dst io.WriteSeeker, key *[32]byte, reg *codec.Registry, progress ProgressFn, logger *logrus.Logger) (Report, error) {
	report, err := Scan(src, 0, progress, reg, logger)
	if err != nil {
		return Report{}, err
	}

	w, err := writer.New(dst, reg)
	if err != nil {
		return Report{}, err
	}

	for _, rec := range report.Index.Records {
		var content []byte
		ok := true

		for _, ref := range rec.BlockRefs {
			if _, err := src.Seek(int64(ref.ArchiveOffset), io.SeekStart); err != nil {
				ok = false
				break
			}

			hdrBytes := make([]byte, block.HeaderSize)
			if _, err := io.ReadFull(src, hdrBytes); err != nil {
				ok = false
				break
			}
			h, err := block.ParseHeader(hdrBytes)
			if err != nil {
				ok = false
				break
			}

			payload := make([]byte, h.CompSize)
			if _, err := io.ReadFull(src, payload); err != nil {
				ok = false
				break
			}

			c, found := reg.Lookup(h.CodecUUID)
			if !found {
				ok = false
				break
			}

			plaintext, err := block.Decode(h, payload, c, key)
			if err != nil {
				if logger != nil {
					logger.WithField("file_id", rec.ID).Warn("decode failed for an otherwise healthy block, skipping file")
				}
				ok = false
				break
			}

			content = append(content, plaintext...)
		}

		if !ok {
			continue
		}

		if _, err := w.AddFile(rec.Name, content); err != nil {
			return Report{}, fmt.Errorf("recovery: writing recovered file %q: %w", rec.Name, err)
		}
	}

	if err := w.Finalize(); err != nil {
		return Report{}, fmt.Errorf("recovery: finalizing recovered archive: %w", err)
	}

	return report, nil
}

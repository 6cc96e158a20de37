package tecplot

import (
	"bufio"
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/notargets/tecio/parallel"
	"github.com/notargets/tecio/utils"
)

// partitionBuckets returns the elements [kMin,kMax) of the concatenation of
// the buckets taken in order, regrouped by element type.
func partitionBuckets(buckets map[utils.ElementType][]int, order []utils.ElementType,
	kMin, kMax int) (part map[utils.ElementType][]int) {
	part = make(map[utils.ElementType][]int)
	var offset int
	for _, et := range order {
		var (
			np    = et.GetNumNodes()
			nElem = len(buckets[et]) / np
		)
		lo, hi := max(kMin-offset, 0), min(kMax-offset, nElem)
		if lo < hi {
			part[et] = buckets[et][lo*np : hi*np]
		}
		offset += nElem
	}
	return
}

// rankZone is the slice of the grid owned by one rank, with its points
// renumbered locally.
func rankZone(g *Grid, cols [][]float64, surface bool, rank, nRanks int) (z asciiZone, err error) {
	var (
		buckets = g.Elements
		order   = volumeOrder
		sm      *SurfaceMap
	)
	z.Type = VolumeZoneType(g.NDim)
	if surface {
		buckets, order = g.Boundary, surfaceOrder
		z.Type = SurfaceZoneType(g.NDim)
	}
	var (
		pm         = utils.NewPartitionMap(nRanks, NumElements(buckets, order))
		kMin, kMax = pm.GetBucketRange(rank)
		part       = partitionBuckets(buckets, order, kMin, kMax)
		conns      [][]int
	)
	log.WithFields(log.Fields{"rank": rank, "elements": pm.GetBucketDimension(rank)}).Debug("rank partition")
	for _, et := range order {
		conns = append(conns, part[et])
	}
	if sm, err = NewSurfaceMap(g.NPoint, conns...); err != nil {
		return
	}
	if z.Conn, _, err = zoneConnectivity(part, order, z.Type, sm); err != nil {
		return
	}
	z.NPts = sm.NPoints
	z.Cols = sm.Gather(cols)
	z.Title = fmt.Sprintf("MPI rank: %d", rank)
	return
}

// WriteRankASCII writes the zone owned by comm's rank into RankFileName(base, rank).
// Rank 0 also writes the file header, so the merged file has exactly one.
func WriteRankASCII(comm parallel.Communicator, base string, g *Grid, sol *Solution,
	surface bool, strand *Strand) (path string, err error) {
	var (
		z     asciiZone
		rank  = comm.Rank()
		title = VolumeTitle
	)
	if err = g.Validate(); err != nil {
		return
	}
	if err = sol.Variables.Validate(g.Coords, sol.Data); err != nil {
		return
	}
	if surface {
		title = SurfaceTitle
	}
	if z, err = rankZone(g, sol.Variables.Columns(g.Coords, sol.Data), surface, rank, comm.Size()); err != nil {
		return
	}
	z.Strand = strand
	path = RankFileName(base, rank)
	err = writeFile(path, false, func(w *bufio.Writer) (err error) {
		if rank == 0 {
			if err = writeHeader(w, title, sol.Variables.Names()); err != nil {
				return
			}
		}
		if len(z.Conn) == 0 {
			log.WithField("rank", rank).Debug("no elements, writing placeholder zone")
			return writePlaceholderZone(w, z, sol.Variables.Len())
		}
		return z.write(w)
	})
	return
}

// WriteParallelASCII has every rank write its partition, waits for all of
// them and merges the fragments on rank 0. The merged file name is returned on rank 0 only.
func WriteParallelASCII(ctx context.Context, comm parallel.Communicator, base string, g *Grid, sol *Solution,
	surface bool, strand *Strand) (merged string, err error) {
	if _, err = WriteRankASCII(comm, base, g, sol, surface, strand); err != nil {
		return
	}
	if err = comm.Barrier(ctx); err != nil {
		return
	}
	if comm.Rank() != 0 {
		return
	}
	return MergeRankFiles(base, comm.Size())
}

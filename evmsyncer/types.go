package evmsyncer

type BlocksRange struct {
	From uint64
	To   uint64
}

// SplitBlockRange splits [fromBlock, toBlock] into consecutive ranges of at most maxSize blocks.
// A zero maxSize means no limit.
func SplitBlockRange(fromBlock uint64, toBlock uint64, maxSize uint64) []*BlocksRange {
	batches := make([]*BlocksRange, 0, 10)
	if fromBlock > toBlock {
		return batches
	}
	for {
		batchToBlock := toBlock
		if maxSize > 0 && toBlock-fromBlock >= maxSize {
			batchToBlock = fromBlock + maxSize - 1
		}
		batches = append(batches, &BlocksRange{
			From: fromBlock,
			To:   batchToBlock,
		})
		if batchToBlock == toBlock {
			return batches
		}
		fromBlock = batchToBlock + 1
	}
}

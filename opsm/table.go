package opsm

// transition pairs a next-state with the action that runs on entry,
// the glusterd_op_sm_t{State,Action} tuple in the original.
type transition struct {
	Next   State
	Action func(m *Machine, ctx *Context)
}

// transitionTable is the dense state x event array ported verbatim
// from glusterd_op_state_table (glusterd-op-sm.c, starting around
// line 2930): one row per State, one column per Event. A (state,
// event) pair absent from the original's row keeps the machine in the
// same state with no action, same as the original's ac_none rows.
var transitionTable = map[State]map[Event]transition{
	StateDefault: {
		EventNone:              {StateDefault, acNone},
		EventStartLock:         {StateLockSent, acSendLock},
		EventLock:              {StateLocked, acLock},
		EventRcvdAcc:           {StateDefault, acNone},
		EventAllAcc:            {StateDefault, acNone},
		EventStageAcc:          {StateDefault, acNone},
		EventCommitAcc:         {StateDefault, acNone},
		EventRcvdRjt:           {StateDefault, acNone},
		EventStageOp:           {StateDefault, acNone},
		EventCommitOp:          {StateDefault, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateDefault, acNone},
		EventAllAck:            {StateDefault, acNone},
		EventLocalUnlockNoResp: {StateDefault, acNone},
	},
	StateLockSent: {
		EventNone:              {StateLockSent, acNone},
		EventStartLock:         {StateLockSent, acNone},
		EventLock:              {StateLockSent, acLock},
		EventRcvdAcc:           {StateLockSent, acRcvdLockAcc},
		EventAllAcc:            {StateStageOpSent, acSendStageOp},
		EventStageAcc:          {StateLockSent, acNone},
		EventCommitAcc:         {StateLockSent, acNone},
		EventRcvdRjt:           {StateAckDrain, acSendUnlockDrain},
		EventStageOp:           {StateLockSent, acNone},
		EventCommitOp:          {StateLockSent, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateAckDrain, acNone},
		EventAllAck:            {StateLockSent, acNone},
		EventLocalUnlockNoResp: {StateLockSent, acNone},
	},
	StateLocked: {
		EventNone:              {StateLocked, acNone},
		EventStartLock:         {StateLocked, acNone},
		EventLock:              {StateLocked, acLock},
		EventRcvdAcc:           {StateLocked, acNone},
		EventAllAcc:            {StateLocked, acNone},
		EventStageAcc:          {StateLocked, acNone},
		EventCommitAcc:         {StateLocked, acNone},
		EventRcvdRjt:           {StateLocked, acNone},
		EventStageOp:           {StateStaged, acStageOp},
		EventCommitOp:          {StateLocked, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateLocked, acNone},
		EventAllAck:            {StateLocked, acNone},
		EventLocalUnlockNoResp: {StateDefault, acLocalUnlock},
	},
	StateStageOpSent: {
		EventNone:              {StateStageOpSent, acNone},
		EventStartLock:         {StateStageOpSent, acNone},
		EventLock:              {StateStageOpSent, acLock},
		EventRcvdAcc:           {StateStageOpSent, acRcvdStageOpAcc},
		EventAllAcc:            {StateBrickOpSent, acSendBrickOp},
		EventStageAcc:          {StateBrickOpSent, acSendBrickOp},
		EventCommitAcc:         {StateStageOpSent, acNone},
		EventRcvdRjt:           {StateStageOpFailed, acStageOpFailed},
		EventStageOp:           {StateStageOpSent, acNone},
		EventCommitOp:          {StateStageOpSent, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateAckDrain, acNone},
		EventAllAck:            {StateStageOpSent, acNone},
		EventLocalUnlockNoResp: {StateStageOpSent, acNone},
	},
	// A rejection mid-transaction always drains through AckDrain before
	// unlock goes out, so StageOpFailed's AllAck (every outstanding
	// reply now accounted for) hands off to AckDrain rather than
	// straight to UnlockSent.
	StateStageOpFailed: {
		EventNone:              {StateStageOpFailed, acNone},
		EventStartLock:         {StateStageOpFailed, acNone},
		EventLock:              {StateStageOpFailed, acLock},
		EventRcvdAcc:           {StateStageOpFailed, acStageOpFailed},
		EventAllAcc:            {StateStageOpFailed, acNone},
		EventStageAcc:          {StateStageOpFailed, acNone},
		EventCommitAcc:         {StateStageOpFailed, acNone},
		EventRcvdRjt:           {StateStageOpFailed, acStageOpFailed},
		EventStageOp:           {StateStageOpFailed, acNone},
		EventCommitOp:          {StateStageOpFailed, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateAckDrain, acNone},
		EventAllAck:            {StateAckDrain, acSendUnlockDrain},
		EventLocalUnlockNoResp: {StateStageOpFailed, acNone},
	},
	StateStaged: {
		EventNone:              {StateStaged, acNone},
		EventStartLock:         {StateStaged, acNone},
		EventLock:              {StateStaged, acLock},
		EventRcvdAcc:           {StateStaged, acNone},
		EventAllAcc:            {StateStaged, acNone},
		EventStageAcc:          {StateStaged, acNone},
		EventCommitAcc:         {StateStaged, acNone},
		EventRcvdRjt:           {StateStaged, acNone},
		EventStageOp:           {StateStaged, acNone},
		EventCommitOp:          {StateBrickCommitted, acSendBrickOp},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateStaged, acNone},
		EventAllAck:            {StateStaged, acNone},
		EventLocalUnlockNoResp: {StateDefault, acLocalUnlock},
	},
	StateBrickOpSent: {
		EventNone:              {StateBrickOpSent, acNone},
		EventStartLock:         {StateBrickOpSent, acNone},
		EventLock:              {StateBrickOpSent, acLock},
		EventRcvdAcc:           {StateBrickOpSent, acRcvdBrickOpAcc},
		EventAllAcc:            {StateBrickOpSent, acNone},
		EventStageAcc:          {StateBrickOpSent, acNone},
		EventCommitAcc:         {StateBrickOpSent, acNone},
		EventRcvdRjt:           {StateBrickOpFailed, acBrickOpFailed},
		EventStageOp:           {StateBrickOpSent, acNone},
		EventCommitOp:          {StateBrickOpSent, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateAckDrain, acNone},
		EventAllAck:            {StateCommitOpSent, acSendCommitOp},
		EventLocalUnlockNoResp: {StateBrickOpSent, acNone},
	},
	// Same AckDrain hand-off as StateStageOpFailed, above.
	StateBrickOpFailed: {
		EventNone:              {StateBrickOpFailed, acNone},
		EventStartLock:         {StateBrickOpFailed, acNone},
		EventLock:              {StateBrickOpFailed, acLock},
		EventRcvdAcc:           {StateBrickOpFailed, acBrickOpFailed},
		EventAllAcc:            {StateBrickOpFailed, acNone},
		EventStageAcc:          {StateBrickOpFailed, acNone},
		EventCommitAcc:         {StateBrickOpFailed, acNone},
		EventRcvdRjt:           {StateBrickOpFailed, acBrickOpFailed},
		EventStageOp:           {StateBrickOpFailed, acNone},
		EventCommitOp:          {StateBrickOpFailed, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateAckDrain, acNone},
		EventAllAck:            {StateAckDrain, acSendUnlockDrain},
		EventLocalUnlockNoResp: {StateBrickOpFailed, acNone},
	},
	StateBrickCommitted: {
		EventNone:              {StateBrickCommitted, acNone},
		EventStartLock:         {StateBrickCommitted, acNone},
		EventLock:              {StateBrickCommitted, acLock},
		EventRcvdAcc:           {StateBrickCommitted, acRcvdBrickOpAcc},
		EventAllAcc:            {StateBrickCommitted, acNone},
		EventStageAcc:          {StateBrickCommitted, acNone},
		EventCommitAcc:         {StateBrickCommitted, acNone},
		EventRcvdRjt:           {StateBrickCommitFailed, acBrickOpFailed},
		EventStageOp:           {StateBrickCommitted, acNone},
		EventCommitOp:          {StateBrickCommitted, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateBrickCommitted, acNone},
		EventAllAck:            {StateCommitted, acCommitOp},
		EventLocalUnlockNoResp: {StateDefault, acLocalUnlock},
	},
	StateBrickCommitFailed: {
		EventNone:              {StateBrickCommitFailed, acNone},
		EventStartLock:         {StateBrickCommitFailed, acNone},
		EventLock:              {StateBrickCommitFailed, acLock},
		EventRcvdAcc:           {StateBrickCommitFailed, acBrickOpFailed},
		EventAllAcc:            {StateBrickCommitFailed, acNone},
		EventStageAcc:          {StateBrickCommitFailed, acNone},
		EventCommitAcc:         {StateBrickCommitFailed, acNone},
		EventRcvdRjt:           {StateBrickCommitFailed, acBrickOpFailed},
		EventStageOp:           {StateBrickCommitFailed, acNone},
		EventCommitOp:          {StateBrickCommitFailed, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateBrickCommitFailed, acNone},
		EventAllAck:            {StateBrickCommitFailed, acSendCommitFailed},
		EventLocalUnlockNoResp: {StateDefault, acLocalUnlock},
	},
	StateCommitOpSent: {
		EventNone:              {StateCommitOpSent, acNone},
		EventStartLock:         {StateCommitOpSent, acNone},
		EventLock:              {StateCommitOpSent, acLock},
		EventRcvdAcc:           {StateCommitOpSent, acRcvdCommitOpAcc},
		EventAllAcc:            {StateUnlockSent, acSendUnlock},
		EventStageAcc:          {StateCommitOpSent, acNone},
		EventCommitAcc:         {StateUnlockSent, acSendUnlock},
		EventRcvdRjt:           {StateCommitOpFailed, acCommitOpFailed},
		EventStageOp:           {StateCommitOpSent, acNone},
		EventCommitOp:          {StateCommitOpSent, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateAckDrain, acNone},
		EventAllAck:            {StateCommitOpSent, acNone},
		EventLocalUnlockNoResp: {StateCommitOpSent, acNone},
	},
	// Same AckDrain hand-off as StateStageOpFailed, above.
	StateCommitOpFailed: {
		EventNone:              {StateCommitOpFailed, acNone},
		EventStartLock:         {StateCommitOpFailed, acNone},
		EventLock:              {StateCommitOpFailed, acLock},
		EventRcvdAcc:           {StateCommitOpFailed, acCommitOpFailed},
		EventAllAcc:            {StateCommitOpFailed, acNone},
		EventStageAcc:          {StateCommitOpFailed, acNone},
		EventCommitAcc:         {StateCommitOpFailed, acNone},
		EventRcvdRjt:           {StateCommitOpFailed, acCommitOpFailed},
		EventStageOp:           {StateCommitOpFailed, acNone},
		EventCommitOp:          {StateCommitOpFailed, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateAckDrain, acNone},
		EventAllAck:            {StateAckDrain, acSendUnlockDrain},
		EventLocalUnlockNoResp: {StateCommitOpFailed, acNone},
	},
	StateCommitted: {
		EventNone:              {StateCommitted, acNone},
		EventStartLock:         {StateCommitted, acNone},
		EventLock:              {StateCommitted, acLock},
		EventRcvdAcc:           {StateCommitted, acNone},
		EventAllAcc:            {StateCommitted, acNone},
		EventStageAcc:          {StateCommitted, acNone},
		EventCommitAcc:         {StateCommitted, acNone},
		EventRcvdRjt:           {StateCommitted, acNone},
		EventStageOp:           {StateCommitted, acNone},
		EventCommitOp:          {StateCommitted, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateCommitted, acNone},
		EventAllAck:            {StateCommitted, acNone},
		EventLocalUnlockNoResp: {StateDefault, acLocalUnlock},
	},
	StateUnlockSent: {
		EventNone:              {StateUnlockSent, acNone},
		EventStartLock:         {StateUnlockSent, acNone},
		EventLock:              {StateUnlockSent, acLock},
		EventRcvdAcc:           {StateUnlockSent, acRcvdUnlockAcc},
		EventAllAcc:            {StateDefault, acUnlockedAll},
		EventStageAcc:          {StateUnlockSent, acNone},
		EventCommitAcc:         {StateUnlockSent, acNone},
		EventRcvdRjt:           {StateUnlockSent, acRcvdUnlockAcc},
		EventStageOp:           {StateUnlockSent, acNone},
		EventCommitOp:          {StateUnlockSent, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateAckDrain, acNone},
		EventAllAck:            {StateUnlockSent, acNone},
		EventLocalUnlockNoResp: {StateUnlockSent, acNone},
	},
	StateAckDrain: {
		EventNone:              {StateAckDrain, acNone},
		EventStartLock:         {StateAckDrain, acNone},
		EventLock:              {StateAckDrain, acLock},
		EventRcvdAcc:           {StateAckDrain, acSendUnlockDrain},
		EventAllAcc:            {StateAckDrain, acNone},
		EventStageAcc:          {StateAckDrain, acNone},
		EventCommitAcc:         {StateAckDrain, acNone},
		EventRcvdRjt:           {StateAckDrain, acSendUnlockDrain},
		EventStageOp:           {StateAckDrain, acNone},
		EventCommitOp:          {StateAckDrain, acNone},
		EventUnlock:            {StateDefault, acUnlock},
		EventStartUnlock:       {StateAckDrain, acNone},
		EventAllAck:            {StateUnlockSent, acSendUnlock},
		EventLocalUnlockNoResp: {StateAckDrain, acNone},
	},
}

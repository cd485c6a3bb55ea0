package store

// 注意：此包只包含实现，接口定义在 core 包。
// 引擎通过 core.Stores 注入具体实现：
//
//	mem := store.NewMemory()
//	stores := &core.Stores{
//	    Users:       mem,
//	    Cards:       mem,
//	    Content:     mem,
//	    Tags:        mem,
//	    Connections: mem,
//	    Votes:       mem,
//	}

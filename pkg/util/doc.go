// Package util 提供任务调度相关的子包。
//
// 子包列表：
//   - xqueue: 无界无锁 FIFO 队列，多生产者多消费者安全，支持阻塞弹出
//   - xpool: 固定大小的泛型 worker pool，Submit 返回 Future，关闭时排空已接受任务
package util
